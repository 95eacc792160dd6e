/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Directive names inside a stringified shape, rendered as type names
// in error messages.
var reShapeDirective = regexp.MustCompile("`?\\$([A-Z]+)`?")

// _kindValidator builds a directive that checks the data value at the
// current key has the given kind.
func _kindValidator(kind string) Injector {
	return func(
		state *Injection,
		_val any,
		current any,
		ref *string,
		store any,
	) any {
		out := GetProp(current, state.Key)

		// A wrong value is left in place, so list slots stay aligned
		// with the data.
		if t := Typify(out); kind != t {
			state.Errs.Append(_invalidTypeMsg(state.Path, kind, t, out))
		}

		return out
	}
}

var (
	validate_NUMBER   = _kindValidator(S_number)
	validate_BOOLEAN  = _kindValidator(S_boolean)
	validate_OBJECT   = _kindValidator(S_object)
	validate_ARRAY    = _kindValidator(S_array)
	validate_FUNCTION = _kindValidator(S_function)
)

// A required string value. Rejects empty strings.
func validate_STRING(
	state *Injection,
	_val any,
	current any,
	ref *string,
	store any,
) any {
	out := GetProp(current, state.Key)

	t := Typify(out)
	if S_string != t {
		state.Errs.Append(_invalidTypeMsg(state.Path, S_string, t, out))
	} else if S_MT == out.(string) {
		state.Errs.Append("Empty string at " + Pathify(state.Path, 1))
	}

	return out
}

// Allow any value.
func validate_ANY(
	state *Injection,
	_val any,
	current any,
	ref *string,
	store any,
) any {
	return GetProp(current, state.Key)
}

// Specify child values for map or list.
// Map syntax: {'`$CHILD`': child-template }
// List syntax: ['`$CHILD`', child-template ]
func validate_CHILD(
	state *Injection,
	_val any,
	current any,
	ref *string,
	store any,
) any {
	switch state.Mode {

	// Map syntax.
	case InjectModeKeyPre:
		if len(state.Path) < 2 {
			return nil
		}

		child := GetProp(state.Parent, state.Key)
		ppath := state.Path[:len(state.Path)-1]
		tval := GetProp(current, ppath[len(ppath)-1])

		if nil == tval {
			tval = map[string]any{}

		} else if !IsMap(tval) {
			state.Errs.Append(_invalidTypeMsg(ppath, S_object, Typify(tval), tval))
			_passThrough(state, tval)
			return nil
		}

		// Each data key gets its own copy of the child shape, and is
		// appended to the keys still to be injected.
		for _, ckey := range KeysOf(tval) {
			SetProp(state.Parent, ckey, Clone(child))
			state.Keys = append(state.Keys, ckey)
		}

		// Remove $CHILD to cleanup output.
		SetProp(state.Parent, state.Key, nil)
		return nil

	// List syntax.
	case InjectModeVal:
		if !IsList(state.Parent) {
			state.Errs.Append("Invalid $CHILD as value at " + Pathify(state.Path, 1))
			return nil
		}

		child := GetProp(state.Parent, 1)

		// Absent list defaults to empty.
		if nil == current {
			_replaceParent(state, []any{})
			state.Keys = []string{}
			state.KeyI = -1
			return nil
		}

		if !IsList(current) {
			state.Errs.Append(_invalidTypeMsg(
				state.Path[:len(state.Path)-1], S_array, Typify(current), current))
			_passThrough(state, current)
			return nil
		}

		// One shape clone per data element, then restart the key
		// iteration over the new list.
		items := _listify(current)
		shape := make([]any, len(items))
		for i := range items {
			shape[i] = Clone(child)
		}

		_replaceParent(state, shape)
		state.Keys = KeysOf(shape)
		state.KeyI = -1

		return GetProp(shape, 0)
	}

	return nil
}

// Match at least one of the specified shapes.
// Syntax: ['`$ONE`', alt0, alt1, ...]
func validate_ONE(
	state *Injection,
	_val any,
	current any,
	ref *string,
	store any,
) any {
	if InjectModeVal != state.Mode || len(state.Path) < 2 {
		return nil
	}

	// The alternatives are not injected as siblings.
	state.KeyI = len(state.Keys)

	tvals := _listify(state.Parent)
	if 0 < len(tvals) {
		tvals = tvals[1:]
	}

	// Custom validators remain available to the alternatives.
	directives := map[string]any{}
	for _, item := range Items(store) {
		if k := item[0].(string); strings.HasPrefix(k, S_DS) && IsFunc(item[1]) {
			directives[k] = item[1]
		}
	}

	for _, tval := range tvals {
		terrs := NewErrs()
		ValidateCollect(current, tval, directives, terrs)

		if 0 == terrs.Len() {
			_passThrough(state, current)
			return nil
		}
	}

	descs := make([]string, len(tvals))
	for i, tval := range tvals {
		descs[i] = Stringify(tval)
	}
	valdesc := reShapeDirective.ReplaceAllStringFunc(
		strings.Join(descs, S_CM),
		func(m string) string {
			return strings.ToLower(reShapeDirective.FindStringSubmatch(m)[1])
		})

	state.Errs.Append(_invalidTypeMsg(
		state.Path[:len(state.Path)-1],
		"one of "+valdesc,
		Typify(current),
		current,
	))

	_passThrough(state, current)
	return nil
}

// _passThrough places a data value at the slot of the node that holds
// the directive, and detaches the state from that node so the rest of
// its keys are not processed.
func _passThrough(state *Injection, val any) {
	_replaceParent(state, val)
	state.Parent = map[string]any{}
	state.KeyI = len(state.Keys)
}

// This is the "modify" argument to TransformModify.
func validation(
	val any,
	key any,
	parent any,
	state *Injection,
	current any,
	store any,
) {
	// A directive has redirected or abandoned the iteration, so this
	// slot is either revisited or no longer part of the output.
	if nil == state || state.KeyI < 0 || len(state.Keys) <= state.KeyI {
		return
	}

	// Current val to verify.
	cval := GetProp(current, key)
	if nil == cval {
		return
	}

	pval := GetProp(parent, key)

	// A custom validator has removed the value.
	if nil == pval {
		SetProp(parent, key, cval)
		return
	}

	// Unresolved directives.
	if s, ok := pval.(string); ok && strings.Contains(s, S_DS) {
		return
	}

	ptype := Typify(pval)
	ctype := Typify(cval)

	if ptype != ctype {
		state.Errs.Append(_invalidTypeMsg(state.Path, ptype, ctype, cval))
		return
	}

	if IsMap(cval) {
		pkeys := KeysOf(pval)

		// An empty shape, or `$OPEN`, allows any keys.
		if 0 < len(pkeys) && true != GetProp(pval, S_TOPEN) {
			badkeys := []string{}
			for _, ckey := range KeysOf(cval) {
				if !HasKey(pval, ckey) {
					badkeys = append(badkeys, ckey)
				}
			}

			if 0 < len(badkeys) {
				state.Errs.Append("Unexpected keys at " + Pathify(state.Path, 1) +
					S_CN + " " + strings.Join(badkeys, S_CM))
			}

		} else {
			Merge([]any{pval, cval})
			SetProp(pval, S_TOPEN, nil)
		}

	} else if !IsList(cval) {
		// Shape value is a default, so copy over the data.
		SetProp(parent, key, cval)
	}
}

// Validate a data structure against a shape specification.  The shape
// specification follows the "by example" principle.  Plain data in
// the shape is treated as default values that also specify the
// required type.  Thus shape {a:1} validates {a:2}, since the types
// (number) match, but not {a:'A'}.  Shape {a:1} against data {}
// returns {a:1} as a=1 is the default value of the a key.  Special
// validation commands (in the same syntax as transform) are also
// provided to specify required values.  Thus shape {a:'`$STRING`'}
// validates {a:'A'} but not {a:1}. Empty map or list means the node
// is open, and if missing an empty default is inserted.
func Validate(
	data any, // The input data
	spec any, // The shape specification
) (any, error) {
	return ValidateCollect(data, spec, nil, nil)
}

// ValidateCollect is Validate with extra directives, and an optional
// error collector. If errs is given, messages are appended to it and
// no error is returned.
func ValidateCollect(
	data any,
	spec any,
	extra map[string]any,
	errs *Errs,
) (any, error) {
	collect := nil != errs
	if !collect {
		errs = NewErrs()
	}

	store := map[string]any{
		S_DERRS: errs,

		// Transform directives are not available.
		"$BT":     nil,
		"$DS":     nil,
		"$WHEN":   nil,
		"$DELETE": nil,
		"$COPY":   nil,
		"$KEY":    nil,
		"$META":   nil,
		"$MERGE":  nil,
		"$EACH":   nil,
		"$PACK":   nil,

		"$STRING":   Injector(validate_STRING),
		"$NUMBER":   validate_NUMBER,
		"$BOOLEAN":  validate_BOOLEAN,
		"$OBJECT":   validate_OBJECT,
		"$ARRAY":    validate_ARRAY,
		"$FUNCTION": validate_FUNCTION,
		"$ANY":      Injector(validate_ANY),
		"$CHILD":    Injector(validate_CHILD),
		"$ONE":      Injector(validate_ONE),
	}

	for k, fn := range extra {
		store[k] = fn
	}

	out := TransformModify(data, spec, store, validation)

	if collect || 0 == errs.Len() {
		return out, nil
	}

	if _debugOn() {
		_debug("invalid", zap.Strings("errors", errs.List()))
	}

	return out, &ValidationError{Messages: errs.List()}
}
