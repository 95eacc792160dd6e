/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reEscRe         = regexp.MustCompile(`[.*+?^${}()|\[\]\\]`)
	reNonSlashSlash = regexp.MustCompile(`([^/])/+`)
	reTrailingSlash = regexp.MustCompile(`/+$`)
	reLeadingSlash  = regexp.MustCompile(`^/+`)
)

// Safely stringify a value for humans (NOT JSON!). Quotes are
// removed and callables are skipped. With maxlen, the result is
// truncated and ends in "...".
func Stringify(val any, maxlen ...int) string {
	if nil == val {
		return S_MT
	}

	out := S_MT
	if s, ok := val.(string); ok {
		out = s
	} else {
		out = strings.ReplaceAll(_compactJSON(CloneFlags(val, map[string]bool{"func": false})), `"`, S_MT)
	}

	// The limit counts runes, so multi-byte characters are never split.
	if 0 < len(maxlen) && 0 < maxlen[0] {
		ml := maxlen[0]
		if runes := []rune(out); len(runes) > ml {
			if 3 <= ml {
				out = string(runes[:ml-3]) + "..."
			} else {
				out = string(runes[:ml])
			}
		}
	}

	return out
}

// _compactJSON renders a value as compact JSON with sorted map keys,
// or the empty string if it cannot be encoded.
func _compactJSON(val any) string {
	if nil == val {
		return S_MT
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(val); nil != err {
		return S_MT
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Build a human friendly path string. Path parts are joined with
// dots, and dots inside parts are removed. The optional from argument
// skips leading parts (e.g. the virtual $TOP).
func Pathify(val any, from ...int) string {
	var path []any

	if IsList(val) {
		path = _listify(val)
	} else if s, ok := val.(string); ok {
		path = []any{s}
	} else if num, ok := _toFloat64(val); ok {
		path = []any{strconv.FormatInt(int64(math.Floor(num)), 10)}
	}

	if nil == path {
		if nil == val {
			return "<unknown-path>"
		}
		return "<unknown-path" + S_CN + Stringify(val, 33) + ">"
	}

	start := 0
	if 0 < len(from) && 0 < from[0] {
		start = from[0]
	}
	if len(path) < start {
		start = len(path)
	}

	sliced := path[start:]
	if 0 == len(sliced) {
		return "<root>"
	}

	parts := make([]string, 0, len(sliced))
	for _, p := range sliced {
		if s, ok := p.(string); ok {
			parts = append(parts, strings.ReplaceAll(s, S_DT, S_MT))
		} else if num, ok := _toFloat64(p); ok {
			parts = append(parts, strconv.FormatInt(int64(math.Floor(num)), 10))
		}
	}

	return strings.Join(parts, S_DT)
}

// Escape regular expression.
func EscRe(s string) string {
	return reEscRe.ReplaceAllString(s, `\${0}`)
}

// Escape URLs.
func EscUrl(s string) string {
	return url.QueryEscape(s)
}

// Concatenate url part strings, merging forward slashes as needed.
func JoinUrl(parts []any) string {
	out := make([]string, 0, len(parts))
	seen := 0

	for _, p := range parts {
		if nil == p || S_MT == p {
			continue
		}

		s, ok := p.(string)
		if !ok {
			s = Stringify(p)
		}

		s = reNonSlashSlash.ReplaceAllString(s, `$1/`)
		if 0 < seen {
			s = reLeadingSlash.ReplaceAllString(s, S_MT)
		}
		s = reTrailingSlash.ReplaceAllString(s, S_MT)
		seen++

		if S_MT != s {
			out = append(out, s)
		}
	}

	return strings.Join(out, "/")
}
