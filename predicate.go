/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"fmt"
	"reflect"
	"strconv"
)

// Value is a node - defined, and a map (hash) or list (array).
func IsNode(val any) bool {
	return IsMap(val) || IsList(val)
}

// Value is a defined map (hash) with string keys.
func IsMap(val any) bool {
	_, ok := val.(map[string]any)
	return ok
}

// Value is a defined list (array) with integer keys (indexes).
// Any slice or array kind counts, so typed Go slices can be read.
func IsList(val any) bool {
	if nil == val {
		return false
	}
	switch val.(type) {
	case []any:
		return true
	}
	kind := reflect.ValueOf(val).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// Value is a defined string (non-empty) or integer key.
func IsKey(val any) bool {
	switch k := val.(type) {
	case string:
		return k != S_MT
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Check for an "empty" value - nil, empty string, array, object.
func IsEmpty(val any) bool {
	if nil == val {
		return true
	}
	switch vv := val.(type) {
	case string:
		return vv == S_MT
	case []any:
		return len(vv) == 0
	case map[string]any:
		return len(vv) == 0
	}
	if IsList(val) {
		return reflect.ValueOf(val).Len() == 0
	}
	return false
}

// Value is a function.
func IsFunc(val any) bool {
	if nil == val {
		return false
	}
	return reflect.ValueOf(val).Kind() == reflect.Func
}

// Typify returns the kind name of a value: null, boolean, number,
// string, function, array or object.
func Typify(val any) string {
	if nil == val {
		return S_null
	}
	return _kindName(reflect.TypeOf(val))
}

func _kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return S_boolean

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return S_number

	case reflect.String:
		return S_string

	case reflect.Func:
		return S_function

	case reflect.Slice, reflect.Array:
		return S_array
	}

	return S_object
}

// _strKey renders a key in string form.
func _strKey(key any) string {
	switch v := key.(type) {
	case nil:
		return S_MT
	case string:
		return v
	case *string:
		if nil != v {
			return *v
		}
		return S_MT
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(key)
}

// _intKey coerces a key to a list index. Floats are truncated and
// strings must parse as a base 10 integer.
func _intKey(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case string:
		ki, err := strconv.Atoi(k)
		if nil != err {
			return 0, false
		}
		return ki, true
	case *string:
		if nil == k {
			return 0, false
		}
		return _intKey(*k)
	}

	num, ok := _toFloat64(key)
	if !ok {
		return 0, false
	}
	return int(num), true
}

// _toFloat64 unifies the numeric kinds.
func _toFloat64(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// _listify returns a list as []any, converting typed slices.
func _listify(src any) []any {
	if list, ok := src.([]any); ok {
		return list
	}

	if nil == src {
		return nil
	}

	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
