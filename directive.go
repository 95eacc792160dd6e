/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"go.uber.org/zap"
)

// The Transform_* functions are the built-in directives (see Injector).

// Delete a key from a map or list. As a value, the nil result is
// written into the slot by the caller, which removes it.
func Transform_DELETE(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	if state.Mode.IsKeyMode() {
		_setParentProp(state, nil)
	}
	return nil
}

// Copy value from source data. As a key, the key is passed through.
func Transform_COPY(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	if state.Mode.IsKeyMode() {
		return state.Key
	}

	return GetProp(current, state.Key)
}

// As a value, inject the key of the parent node.
// As a key, defined the name of the key property in the source object.
func Transform_KEY(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	if InjectModeVal != state.Mode {
		return nil
	}

	// Key is defined by $KEY meta property.
	if keyspec := GetProp(state.Parent, S_TKEY); nil != keyspec {
		SetProp(state.Parent, S_TKEY, nil)
		return GetProp(current, keyspec)
	}

	// Key is defined within general purpose $META object.
	if pkey := GetProp(GetProp(state.Parent, S_TMETA), S_KEY); nil != pkey {
		return pkey
	}

	// Fallback to the second-last path element.
	if 2 <= len(state.Path) {
		return state.Path[len(state.Path)-2]
	}

	return nil
}

// Store meta data about a node.  Does nothing itself, just used by
// other directives, and is removed when called.
func Transform_META(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	SetProp(state.Parent, S_TMETA, nil)
	return nil
}

// Merge a list of objects into the current object.
// Must be a key in an object. The value is merged over the current object.
// If the value is an array, the elements are first merged using `merge`.
// If the value is the empty string, merge the top level store.
// Format: { '`$MERGE`': '`source-path`' | ['`source-paths`', ...] }
func Transform_MERGE(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	switch state.Mode {
	case InjectModeKeyPre:
		return state.Key

	case InjectModeKeyPost:
		var args []any
		switch a := GetProp(state.Parent, state.Key).(type) {
		case string:
			if S_MT == a {
				args = []any{GetProp(store, S_DTOP)}
			} else {
				args = []any{a}
			}
		case []any:
			args = a
		default:
			args = []any{a}
		}

		// Remove the $MERGE command from a parent map.
		_setParentProp(state, nil)

		// Literals in the parent have precedence, but we still merge onto
		// the parent object, so that node tree references are not changed.
		mergelist := make([]any, 0, len(args)+2)
		mergelist = append(mergelist, state.Parent)
		mergelist = append(mergelist, args...)
		mergelist = append(mergelist, Clone(state.Parent))

		Merge(mergelist)

		return state.Key
	}

	// Ensures $MERGE is removed from parent list.
	return nil
}

// Convert a node to a list.
// Format: ['`$EACH`', '`source-path-of-node`', child-template]
func Transform_EACH(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	// Remove arguments to avoid spurious processing.
	if 1 < len(state.Keys) {
		state.Keys = state.Keys[:1]
	}

	if InjectModeVal != state.Mode {
		return nil
	}

	// Get arguments: ['`$EACH`', 'source-path', child-template].
	args := _listify(state.Parent)
	if len(args) < 3 {
		state.Errs.Append("Invalid $EACH at " + Pathify(state.Path, 1) +
			": expected [$EACH, source-path, child-template]")
		return nil
	}

	srcpath := args[1]
	child := args[2]

	// Source data.
	src := _sourceOf(srcpath, store, current, state)

	// Create parallel data structures:
	// source entries :: child templates
	tcur := []any{}
	tval := []any{}

	if IsList(src) {
		for _, item := range _listify(src) {
			tval = append(tval, Clone(child))
			tcur = append(tcur, item)
		}

	} else if IsMap(src) {
		for _, item := range Items(src) {
			cclone := Clone(child)

			// Make a note of the key for $KEY transforms.
			if cm, ok := cclone.(map[string]any); ok {
				cm[S_TMETA] = map[string]any{S_KEY: item[0]}
			}

			tval = append(tval, cclone)
			tcur = append(tcur, item[1])
		}

	} else if _debugOn() {
		_debug("$EACH source is not a node", _pathField(state.Path),
			zap.Any("source", srcpath))
	}

	// Build the substructure.
	out := _injectItems(tval, tcur, store, state.Modify)

	_replaceParent(state, out)

	// Return the first element, so that the caller's write of slot 0
	// leaves the built list unchanged.
	return GetProp(out, 0)
}

// Convert a node to a map.
// Format: { '`$PACK`': ['`source-path-of-node`', child-template] }
// The child template can name the key property with '`$KEY`'.
func Transform_PACK(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	if InjectModeKeyPre != state.Mode || len(state.Path) < 2 || len(state.Nodes) < 2 {
		return nil
	}

	args := _listify(GetProp(state.Parent, state.Key))
	if len(args) < 2 {
		state.Errs.Append("Invalid $PACK at " + Pathify(state.Path, 1) +
			": expected [source-path, child-template]")
		return nil
	}

	srcpath := args[0]
	child := Clone(args[1])

	tkey := state.Path[len(state.Path)-2]
	target := state.Nodes[len(state.Nodes)-2]

	src := _sourceOf(srcpath, store, current, state)

	// Source entries, with the original key for map sources.
	type entry struct {
		key  any
		item any
	}

	var entries []entry
	if IsList(src) {
		for _, item := range _listify(src) {
			entries = append(entries, entry{item: item})
		}
	} else if IsMap(src) {
		for _, item := range Items(src) {
			entries = append(entries, entry{key: item[0], item: item[1]})
		}
	} else {
		if _debugOn() {
			_debug("$PACK source is not a node", _pathField(state.Path),
				zap.Any("source", srcpath))
		}

		// Nothing to pack, but the directive still replaces its node.
		SetProp(target, tkey, map[string]any{})
		return nil
	}

	keyprop := GetProp(child, S_TKEY)
	SetProp(child, S_TKEY, nil)

	tval := map[string]any{}
	tcurrent := map[string]any{}

	for _, e := range entries {
		keyname := GetProp(e.item, S_TKEY, keyprop)

		kn := e.key
		if nil != keyname {
			kn = GetProp(e.item, keyname)
		}
		if !IsKey(kn) {
			continue
		}
		ks := _strKey(kn)

		tchild := Clone(child)
		if cm, ok := tchild.(map[string]any); ok && nil != e.key {
			cm[S_TMETA] = map[string]any{S_KEY: e.key}
		}

		tval[ks] = tchild
		tcurrent[ks] = e.item
	}

	packed := _injectItems(tval, tcurrent, store, state.Modify)

	SetProp(target, tkey, packed)

	return nil
}

// _sourceOf resolves a directive argument path without dispatching
// through the state handler.
// A path written as a full reference, "`a.b`", is also accepted.
func _sourceOf(srcpath any, store any, current any, state *Injection) any {
	if s, ok := srcpath.(string); ok {
		if m := reFullInject.FindStringSubmatch(s); nil != m {
			srcpath = _unescapeRef(m[1])
		}
	}

	parts, ok := _pathParts(srcpath)
	if !ok {
		return nil
	}
	return _resolvePath(parts, store, current, state.Base, _itemRefs(state))
}
