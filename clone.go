/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import "reflect"

// Clone a JSON-like data structure.
// NOTE: function value references are copied, *not* cloned.
func Clone(val any) any {
	return CloneFlags(val, nil)
}

// CloneFlags clones with options. flags["func"] = false drops
// callables instead of copying their references.
func CloneFlags(val any, flags map[string]bool) any {
	keepFunc := true
	if kf, has := flags["func"]; has {
		keepFunc = kf
	}
	return _clone(val, keepFunc)
}

func _clone(val any, keepFunc bool) any {
	switch v := val.(type) {
	case nil:
		return nil

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, cv := range v {
			if !keepFunc && IsFunc(cv) {
				continue
			}
			out[k] = _clone(cv, keepFunc)
		}
		return out

	case []any:
		out := make([]any, 0, len(v))
		for _, cv := range v {
			if !keepFunc && IsFunc(cv) {
				continue
			}
			out = append(out, _clone(cv, keepFunc))
		}
		return out
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Func:
		if keepFunc {
			return val
		}
		return nil

	case reflect.Slice:
		if rv.IsNil() {
			return val
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}

	return val
}
