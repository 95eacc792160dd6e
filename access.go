/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"reflect"
	"sort"
)

// Safely get a property of a node. Nil arguments return nil.
// If the key is not found, return the alternative value, if any.
func GetProp(val any, key any, alts ...any) any {
	var alt any
	if 0 < len(alts) {
		alt = alts[0]
	}

	if nil == val || nil == key {
		return alt
	}

	var out any

	switch v := val.(type) {
	case map[string]any:
		out = v[_strKey(key)]

	case []any:
		if ki, ok := _intKey(key); ok && 0 <= ki && ki < len(v) {
			out = v[ki]
		}

	default:
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if ki, ok := _intKey(key); ok && 0 <= ki && ki < rv.Len() {
				out = rv.Index(ki).Interface()
			}

		case reflect.Ptr:
			if !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
				out = _fieldOf(rv.Elem(), key)
			}

		case reflect.Struct:
			out = _fieldOf(rv, key)
		}
	}

	if nil == out {
		return alt
	}

	return out
}

func _fieldOf(rv reflect.Value, key any) any {
	field := rv.FieldByName(_strKey(key))
	if !field.IsValid() || !field.CanInterface() {
		return nil
	}
	return field.Interface()
}

// Value of property with name key in node val is defined.
func HasKey(val any, key any) bool {
	return nil != GetProp(val, key)
}

// Sorted keys of a map, or indexes (as strings) of a list.
func KeysOf(val any) []string {
	if m, ok := val.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}

	if IsList(val) {
		n := reflect.ValueOf(val).Len()
		keys := make([]string, n)
		for i := range keys {
			keys[i] = _strKey(i)
		}
		return keys
	}

	return []string{}
}

// List the sorted keys of a map or list as an array of tuples of the
// form [key, value]. Keys are always in string form.
func Items(val any) [][2]any {
	keys := KeysOf(val)
	out := make([][2]any, 0, len(keys))

	if m, ok := val.(map[string]any); ok {
		for _, k := range keys {
			out = append(out, [2]any{k, m[k]})
		}
		return out
	}

	list := _listify(val)
	for i, k := range keys {
		out = append(out, [2]any{k, list[i]})
	}
	return out
}

// Safely set a property. Undefined arguments and invalid keys are ignored.
// Returns the (possibly modified) parent.
// If the value is undefined the key will be deleted from the parent.
// If the parent is a list, and the key is negative, prepend the value.
// NOTE: If the key is above the list size, append the value; below, prepend.
// If the value is undefined, remove the list element at index key, and shift the
// remaining elements down.  These rules avoid "holes" in the list.
// Go slices cannot grow in place, so callers must use the returned list.
func SetProp(parent any, key any, newval any) any {
	if !IsKey(key) {
		return parent
	}

	if m, ok := parent.(map[string]any); ok {
		ks := _strKey(key)
		if nil == newval {
			delete(m, ks)
		} else {
			m[ks] = newval
		}
		return parent
	}

	if !IsList(parent) {
		return parent
	}

	ki, ok := _intKey(key)
	if !ok {
		return parent
	}

	if arr, ok := parent.([]any); ok {
		return _setListProp(arr, ki, newval)
	}

	rv := reflect.ValueOf(parent)
	if rv.Kind() == reflect.Slice {
		if out, ok := _setTypedListProp(rv, ki, newval); ok {
			return out
		}
	}

	return _setListProp(_listify(parent), ki, newval)
}

func _setListProp(arr []any, ki int, newval any) []any {
	if nil == newval {
		if 0 <= ki && ki < len(arr) {
			copy(arr[ki:], arr[ki+1:])
			arr = arr[:len(arr)-1]
		}
		return arr
	}

	if 0 <= ki {
		if ki >= len(arr) {
			return append(arr, newval)
		}
		arr[ki] = newval
		return arr
	}

	out := make([]any, 0, len(arr)+1)
	out = append(out, newval)
	return append(out, arr...)
}

// _setTypedListProp keeps the element type of a typed slice. Returns
// false if the new value cannot be converted to that type.
func _setTypedListProp(rv reflect.Value, ki int, newval any) (any, bool) {
	size := rv.Len()

	if nil == newval {
		if 0 <= ki && ki < size {
			reflect.Copy(rv.Slice(ki, size), rv.Slice(ki+1, size))
			rv = rv.Slice(0, size-1)
		}
		return rv.Interface(), true
	}

	elemType := rv.Type().Elem()
	nv := reflect.ValueOf(newval)
	switch {
	case nv.Type().AssignableTo(elemType):
	case S_number == Typify(newval) && S_number == _kindName(elemType):
		nv = nv.Convert(elemType)
	default:
		return nil, false
	}

	if 0 <= ki {
		if ki >= size {
			return reflect.Append(rv, nv).Interface(), true
		}
		rv.Index(ki).Set(nv)
		return rv.Interface(), true
	}

	out := reflect.MakeSlice(rv.Type(), 1, size+1)
	out.Index(0).Set(nv)
	return reflect.AppendSlice(out, rv).Interface(), true
}
