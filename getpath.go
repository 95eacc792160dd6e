/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import "strings"

// Get a value deep inside a node using a key path.  For example the
// path `a.b` gets the value 1 from {a:{b:1}}.  The path can specified
// as a dotted string, or a string array.  If the path starts with a
// dot (or the first element is ""), the path is considered local, and
// resolved against the `current` argument, if defined.  Integer path
// parts are used as array indexes.
func GetPath(path any, store any) any {
	return GetPathState(path, store, nil, nil)
}

// GetPathState resolves a path with injection context. The state
// supplies the base key of the store data and the result handler,
// which is how directives are dispatched from inside a lookup.
func GetPathState(
	path any,
	store any,
	current any,
	state *Injection,
) any {
	parts, ok := _pathParts(path)
	if !ok {
		return nil
	}

	base := S_MT
	if nil != state {
		base = state.Base
	}

	val := _resolvePath(parts, store, current, base, _itemRefs(state))

	if nil != state && nil != state.Handler {
		ref := strings.Join(parts, S_DT)
		val = state.Handler(state, val, current, &ref, store)
	}

	return val
}

// _resolvePath is the lookup part of GetPathState, with no handler.
// If item is true, current is the last place a non-local path is
// looked up.
func _resolvePath(parts []string, store any, current any, base string, item bool) any {
	// An empty path (incl empty string) just finds the store.
	// The actual store data may be in a store sub property, defined by base.
	if nil == store || 0 == len(parts) || (1 == len(parts) && S_MT == parts[0]) {
		return GetProp(store, _baseKey(base), store)
	}

	pI := 0
	root := store

	// Relative path uses `current` argument.
	local := S_MT == parts[0]
	if local {
		pI = 1
		root = current
	}

	if pI >= len(parts) {
		return root
	}

	val := GetProp(root, parts[pI])

	// At top level, check the base, if provided.
	if nil == val && !local {
		val = GetProp(GetProp(root, _baseKey(base)), parts[pI])

		// Inside $EACH and $PACK templates, finally try the source
		// item the template is built from.
		if nil == val && item && nil != current {
			val = GetProp(current, parts[pI])
		}
	}

	// Move along the path, trying to descend into the store.
	for pI++; nil != val && pI < len(parts); pI++ {
		val = GetProp(val, parts[pI])
	}

	return val
}

// _itemRefs reports whether the injection is building $EACH or $PACK
// templates.
func _itemRefs(state *Injection) bool {
	return nil != state && true == state.Meta[S_MITEM]
}

func _baseKey(base string) any {
	if S_MT == base {
		return nil
	}
	return base
}

// _pathParts splits a path into its keys.
func _pathParts(path any) ([]string, bool) {
	switch pp := path.(type) {
	case nil:
		return nil, false

	case string:
		if S_MT == pp {
			return []string{S_MT}, true
		}
		return strings.Split(pp, S_DT), true

	case []string:
		return pp, true
	}

	if !IsList(path) {
		return nil, false
	}

	list := _listify(path)
	parts := make([]string, len(list))
	for i, p := range list {
		parts[i] = _strKey(p)
	}
	return parts, true
}
