/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Injection state used for recursive injection into JSON-like data
// structures. Directives receive the state by pointer and may change
// KeyI, Keys and Parent to redirect the iteration of the node being
// processed.
type Injection struct {
	Mode    InjectMode     // Injection mode: key:pre, val, key:post.
	Full    bool           // Transform escape was full key name.
	KeyI    int            // Index of parent key in list of parent keys.
	Keys    []string       // List of parent keys.
	Key     string         // Current parent key.
	Val     any            // Current child value.
	Parent  any            // Current parent (in transform specification).
	Path    []string       // Path to current node.
	Nodes   []any          // Stack of ancestor nodes.
	Handler Injector       // Custom handler for injections.
	Errs    *Errs          // Error collector.
	Meta    map[string]any // Custom meta data.
	Base    string         // Base key for data in store, if any.
	Modify  Modify         // Modify injection output.
}

var (
	// Pattern examples: "`a.b.c`", "`$NAME`", "`$NAME1`"
	reFullInject    = regexp.MustCompile("^`(\\$[A-Z]+|[^`]+)[0-9]*`$")
	rePartialInject = regexp.MustCompile("`([^`]+)`")

	// Unquoted directive names, "$NAME" or "$NAME1".
	reBareDirective = regexp.MustCompile(`^(\$[A-Z]+)[0-9]*$`)
)

// Inject values from a data store into a node recursively, resolving
// paths against the store, or current if they are local.
func Inject(val any, store any) any {
	return InjectDescend(val, store, nil, nil, nil)
}

// InjectDescend is Inject with the modify callback, current source
// node and injection state exposed, for recursive and advanced use.
// The return value is only meaningful at the top level.
func InjectDescend(
	val any,
	store any,
	modify Modify,
	current any,
	state *Injection,
) any {
	// Create state if at root of injection.
	if nil == state {
		state = _rootState(val, store, modify)

		if nil == current {
			current = map[string]any{S_DTOP: store}
		}

	} else if 1 < len(state.Path) {
		// Resolve current node in store for local paths.
		current = GetProp(current, state.Path[len(state.Path)-2])
	}

	if IsNode(val) {
		val = _injectNode(val, store, modify, current, state)

	} else if str, ok := val.(string); ok {
		// Inject paths into string scalars.
		state.Mode = InjectModeVal
		if _setParentProp(state, _injectStr(str, store, current, state)) {
			// The slot is gone and holds the next, not yet injected, element.
			return GetProp(state.Parent, S_DTOP)
		}
	}

	// Custom modification.
	if nil != modify {
		mval := GetProp(state.Parent, state.Key)
		modify(mval, state.Key, state.Parent, state, current, store)
	}

	// Original val reference may no longer be correct.
	return GetProp(state.Parent, S_DTOP)
}

// _rootState starts an injection. The input value is placed inside a
// virtual parent holder to simplify edge cases.
func _rootState(val any, store any, modify Modify) *Injection {
	parent := map[string]any{S_DTOP: val}

	errs, ok := GetProp(store, S_DERRS).(*Errs)
	if !ok {
		errs = NewErrs()
	}

	return &Injection{
		Mode:    InjectModeVal,
		Keys:    []string{S_DTOP},
		Key:     S_DTOP,
		Val:     val,
		Parent:  parent,
		Path:    []string{S_DTOP},
		Nodes:   []any{parent},
		Handler: injectHandler,
		Base:    S_DTOP,
		Modify:  modify,
		Errs:    errs,
		Meta:    map[string]any{},
	}
}

// _injectItems injects the child templates built by $EACH and $PACK,
// with items holding the matching source entries under $TOP. Within
// the templates a reference that misses the store may name a field
// of its source entry directly.
func _injectItems(tval any, items any, store any, modify Modify) any {
	state := _rootState(tval, store, modify)
	state.Meta[S_MITEM] = true
	return InjectDescend(tval, store, modify, map[string]any{S_DTOP: items}, state)
}

// _injectNode processes each child key-value pair in three phases:
//  1. key:pre - the key string is injected, possibly vetoing the child.
//  2. val - the child value is injected.
//  3. key:post - the key string is injected again, allowing child mutation.
//
// The key index, key list and node are re-read after every phase, as
// directives may change them.
func _injectNode(
	val any,
	store any,
	modify Modify,
	current any,
	state *Injection,
) any {
	handler := state.Handler
	if nil == handler {
		handler = injectHandler
	}

	nodekeys := _injectKeys(val)

	for nkI := 0; nkI < len(nodekeys); nkI++ {
		nodekey := nodekeys[nkI]

		childstate := &Injection{
			Mode:    InjectModeKeyPre,
			KeyI:    nkI,
			Keys:    nodekeys,
			Key:     nodekey,
			Val:     GetProp(val, nodekey),
			Parent:  val,
			Path:    append(slices.Clip(state.Path), nodekey),
			Nodes:   append(slices.Clip(state.Nodes), val),
			Handler: handler,
			Base:    state.Base,
			Modify:  state.Modify,
			Errs:    state.Errs,
			Meta:    state.Meta,
		}

		prekey := _injectStr(nodekey, store, current, childstate)
		nkI, nodekeys, val = childstate.KeyI, childstate.Keys, childstate.Parent

		// A key:pre directive returning nil skips the child.
		if nil == prekey {
			continue
		}

		childval := GetProp(val, prekey)
		childstate.Val = childval
		childstate.Mode = InjectModeVal

		InjectDescend(childval, store, modify, current, childstate)
		nkI, nodekeys, val = childstate.KeyI, childstate.Keys, childstate.Parent

		childstate.Mode = InjectModeKeyPost
		_injectStr(nodekey, store, current, childstate)
		nkI, nodekeys, val = childstate.KeyI, childstate.Keys, childstate.Parent
	}

	return val
}

// _injectKeys orders the keys of a node for injection. Keys are
// sorted to ensure determinism, and directive keys (containing $) are
// processed *after* other keys.  The optional digits suffix of a
// directive can thus be used to order directives.
func _injectKeys(val any) []string {
	var normal, directive []string
	for _, k := range KeysOf(val) {
		if strings.Contains(k, S_DS) {
			directive = append(directive, k)
		} else {
			normal = append(normal, k)
		}
	}
	sort.Strings(directive)
	return append(normal, directive...)
}

// Inject store values into a string. Not a public utility - used by
// `inject`.  Injections are marked with `path` where path is resolved
// with getpath against the store or current (if defined)
// arguments. See `getpath`.  Custom injection handling can be
// provided by state.Handler (this is used for directives).
// The path can also have the special syntax $NAME999 where NAME is
// upper case letters only, and 999 is any digits, which are
// discarded. This syntax specifies the name of a directive, and
// optionally allows directives to be ordered by alphanumeric sorting.
func _injectStr(
	val string,
	store any,
	current any,
	state *Injection,
) any {
	if S_MT == val {
		return S_MT
	}

	// Full string of the val is an injection.
	if pathref, ok := _fullRef(val, store); ok {
		if nil != state {
			state.Full = true
		}
		return GetPathState(pathref, store, current, state)
	}

	// Check for injections within the string.
	out := rePartialInject.ReplaceAllStringFunc(val, func(m string) string {
		ref := _unescapeRef(m[1 : len(m)-1])

		if nil != state {
			state.Full = false
		}

		found := GetPathState(ref, store, current, state)
		if nil == found {
			return S_MT
		}
		if IsNode(found) {
			return _compactJSON(found)
		}
		return Stringify(found)
	})

	// Also call the state handler on the entire string, providing the
	// option for custom injection.
	if nil != state && nil != state.Handler {
		state.Full = true
		return state.Handler(state, out, current, &val, store)
	}

	return out
}

// _fullRef matches a string that is entirely one reference, returning
// the reference with ordering digits removed.
func _fullRef(val string, store any) (string, bool) {
	if m := reFullInject.FindStringSubmatch(val); nil != m {
		return _unescapeRef(m[1]), true
	}

	// Shorthand: $NAME alone refers to a bound directive.
	if m := reBareDirective.FindStringSubmatch(val); nil != m && IsFunc(GetProp(store, m[1])) {
		return m[1], true
	}

	return S_MT, false
}

// Special escapes inside injection. Short references are left alone
// so that $BT and $DS themselves can be named.
func _unescapeRef(ref string) string {
	if 3 < len(ref) {
		ref = strings.ReplaceAll(ref, "$BT", S_BT)
		ref = strings.ReplaceAll(ref, "$DS", S_DS)
	}
	return ref
}

// Default inject handler for transforms. If the path resolves to a function,
// call the function passing the injection state. This is how directives operate.
func injectHandler(
	state *Injection,
	val any,
	current any,
	ref *string,
	store any,
) any {
	iscmd := IsFunc(val) && (nil == ref || strings.HasPrefix(*ref, S_DS))

	if iscmd {
		if _debugOn() {
			name := S_MT
			if nil != ref {
				name = *ref
			}
			_debug("directive",
				zap.String("name", name),
				zap.String("mode", string(state.Mode)),
				_pathField(state.Path))
		}

		if out, ok := _callDirective(val, state, current, ref, store); ok {
			return out
		}
	}

	// The engine writes the result into the parent slot.
	return val
}

// _callDirective invokes the supported directive function shapes.
// Zero argument functions are allowed as a convenience.
func _callDirective(
	fn any,
	state *Injection,
	current any,
	ref *string,
	store any,
) (any, bool) {
	switch f := fn.(type) {
	case Injector:
		return f(state, fn, current, ref, store), true
	case func(*Injection, any, any, *string, any) any:
		return f(state, fn, current, ref, store), true
	case func() any:
		return f(), true
	}
	return nil, false
}

// _setParentProp sets the current key in the state parent. Lists may
// be reallocated, in which case the ancestors are updated. Returns
// true if a value removed a list slot, in which case the key index is
// moved back so that the element shifted into the slot is visited.
func _setParentProp(state *Injection, val any) bool {
	parent := SetProp(state.Parent, state.Key, val)
	if !IsList(parent) {
		return false
	}

	size, prev := _listLen(parent), _listLen(state.Parent)
	if size == prev {
		return false
	}

	_replaceParent(state, parent)

	if size < prev && InjectModeVal == state.Mode {
		state.KeyI--
		return true
	}
	return false
}

// _replaceParent swaps the state parent for a new node (or value),
// and sets it into the ancestor nodes.
func _replaceParent(state *Injection, parent any) {
	state.Parent = parent

	aI := len(state.Nodes) - 1
	if 0 <= aI {
		state.Nodes[aI] = parent
	}

	child := parent
	for aI--; 0 <= aI; aI-- {
		child = SetProp(state.Nodes[aI], state.Path[aI], child)
		state.Nodes[aI] = child

		// Maps are updated in place, so nothing further up changes.
		if IsMap(child) {
			break
		}
	}
}

func _listLen(val any) int {
	if !IsList(val) {
		return -1
	}
	return len(_listify(val))
}
