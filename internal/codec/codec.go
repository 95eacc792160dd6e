/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

// Package codec reads and writes documents as bystruct values: maps,
// lists and JSON-like scalars, with numbers normalised.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jose-perigolo/bystruct"
)

// ErrFormat is returned for an unknown document format.
var ErrFormat = errors.New("unknown format")

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Dump Format = "dump"
)

// ParseFormat accepts a format name, case insensitive. "yml" is YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "dump":
		return Dump, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, name)
}

// FormatOf picks the input format from a file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := ParseFormat(ext)
	if err != nil || Dump == f {
		return "", fmt.Errorf("%w: file %s", ErrFormat, path)
	}
	return f, nil
}

// Decode parses a JSON or YAML document.
func Decode(data []byte, format Format) (any, error) {
	var out any

	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}

	case YAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}

	return Normalize(out), nil
}

// DecodeFile reads a document, using the file extension as its format.
func DecodeFile(path string) (any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	val, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return val, nil
}

// Encode renders a value. Callables are dropped, as neither JSON nor
// YAML can carry them.
func Encode(val any, format Format, indent int) ([]byte, error) {
	if Dump == format {
		return []byte(bystruct.Dump(val)), nil
	}

	val = bystruct.CloneFlags(val, map[string]bool{"func": false})

	switch format {
	case JSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if 0 < indent {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(val); err != nil {
			return nil, fmt.Errorf("encode JSON: %w", err)
		}
		return buf.Bytes(), nil

	case YAML:
		opts := []yaml.EncodeOption{}
		if 0 < indent {
			opts = append(opts, yaml.Indent(indent))
		}
		out, err := yaml.MarshalWithOptions(val, opts...)
		if err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// Normalize converts decoded documents to plain values. Whole numbers
// become int and other numbers float64. Maps with non-string keys
// get string keys, and all slices become []any.
func Normalize(val any) any {
	switch v := val.(type) {
	case nil, bool, string:
		return v

	case json.Number:
		if i, err := v.Int64(); err == nil {
			return _intOrFloat(float64(i), i)
		}
		if f, err := v.Float64(); err == nil {
			return _number(f)
		}
		return v.String()

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Normalize(item)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Normalize(item)
		}
		return out
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return _intOrFloat(float64(rv.Int()), rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return _intOrFloat(float64(u), int64(u))

	case reflect.Float32, reflect.Float64:
		return _number(rv.Float())

	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	}

	return val
}

func _number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

func _intOrFloat(f float64, i int64) any {
	if int64(int(i)) == i {
		return int(i)
	}
	return f
}
