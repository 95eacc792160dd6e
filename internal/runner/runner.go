/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

// Package runner drives declarative test sets through the functions
// of the bystruct package.
//
// A test file is a YAML or JSON document of named sections. Each
// runnable section holds a set of entries:
//
//	getpath:
//	  basic:
//	    set:
//	      - in: { path: a.b, store: { a: { b: 1 } } }
//	        out: 1
//	      - in: { path: a.x, store: {} }
//	        # out absent: the result must be absent
//	      - in: ...
//	        err: expected text or /regexp/
//	        match: { out: { a: 1 } }
package runner

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jose-perigolo/bystruct"
	"github.com/jose-perigolo/bystruct/internal/codec"
)

const (
	// NullMark stands for an absent result.
	NullMark = "__NULL__"

	// UndefMark in a match requires the value to be absent.
	UndefMark = "__UNDEF__"
)

var ErrNoSet = errors.New("no test set")

// Subject is the function under test. Entry arguments are passed in
// order: the entry's in value, or the items of its args list.
type Subject func(args ...any) (any, error)

// Runner holds the sections of one test file.
type Runner struct {
	Name string
	Spec map[string]any
}

// New loads a test file. If the file has a section called name (at
// the top level, or under "primary"), that section is used.
func New(file string, name string) (*Runner, error) {
	doc, err := codec.DecodeFile(file)
	if err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}

	alltests, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("load tests: %s is not a map of sections", file)
	}

	return &Runner{
		Name: name,
		Spec: resolveSpec(name, alltests),
	}, nil
}

func resolveSpec(name string, alltests map[string]any) map[string]any {
	if spec, ok := bystruct.GetPath([]string{"primary", name}, alltests).(map[string]any); ok {
		return spec
	}
	if spec, ok := alltests[name].(map[string]any); ok {
		return spec
	}
	return alltests
}

// Section finds a test section by dotted path, such as "inject.deep".
func (r *Runner) Section(path string) any {
	return bystruct.GetPath(path, r.Spec)
}

// RunSet runs every entry of a test section against the subject,
// which may be a Subject or any function (see Subjectify).
func (r *Runner) RunSet(t *testing.T, testspec any, subject any) {
	t.Helper()
	r.RunSetFlags(t, testspec, nil, subject)
}

// RunSetFlags is RunSet with flags. The "null" flag (default true)
// makes a missing out mean an absent result.
func (r *Runner) RunSetFlags(
	t *testing.T,
	testspec any,
	flags map[string]bool,
	subject any,
) {
	t.Helper()

	flags = resolveFlags(flags)
	fn := Subjectify(subject)

	testset, ok := bystruct.GetProp(testspec, "set").([]any)
	if !ok {
		t.Fatalf("%v: %s", ErrNoSet, r.Name)
	}

	for i, entryVal := range testset {
		entry, ok := entryVal.(map[string]any)
		if !ok {
			t.Errorf("%s: entry %d is not a map", r.Name, i)
			continue
		}

		hasOut := resolveEntry(entry, flags)
		args := resolveArgs(entry)

		res, err := fn(args...)
		res = fixResult(res, flags)
		entry["res"] = res

		if nil == err {
			checkResult(t, entry, hasOut, res)
		} else {
			handleError(t, entry, err)
		}
	}
}

func resolveFlags(flags map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k, v := range flags {
		out[k] = v
	}
	if _, ok := out["null"]; !ok {
		out["null"] = true
	}
	return out
}

// resolveEntry reports whether the entry gives an expected out.
func resolveEntry(entry map[string]any, flags map[string]bool) bool {
	_, has := entry["out"]
	if !has && flags["null"] {
		// Where out is missing, the result must be absent.
		entry["out"] = NullMark
	}
	return has
}

func resolveArgs(entry map[string]any) []any {
	if rawArgs, ok := entry["args"].([]any); ok {
		return bystruct.Clone(rawArgs).([]any)
	}
	if in, ok := entry["in"]; ok {
		return []any{bystruct.Clone(in)}
	}
	return []any{}
}

func fixResult(res any, flags map[string]bool) any {
	if nil == res && flags["null"] {
		return NullMark
	}
	return codec.Normalize(bystruct.CloneFlags(res, map[string]bool{"func": false}))
}

func checkResult(t *testing.T, entry map[string]any, hasOut bool, res any) {
	t.Helper()

	if expected, ok := entry["err"]; ok && nil != expected && false != expected {
		t.Errorf("expected error %s, got none\n%s", bystruct.Stringify(expected), outFail(entry, res))
		return
	}

	if nil == entry["match"] || hasOut {
		if !assert.Equal(t, entry["out"], res, outFail(entry, res)) {
			return
		}
	}

	if nil != entry["match"] {
		pass, err := MatchNode(entry["match"], map[string]any{
			"in":   entry["in"],
			"args": entry["args"],
			"out":  res,
		})
		if !pass {
			t.Errorf("match fail: %v\n%s", err, outFail(entry, res))
		}
	}
}

func handleError(t *testing.T, entry map[string]any, testerr error) {
	t.Helper()

	expected, ok := entry["err"]
	if !ok || nil == expected || false == expected {
		t.Errorf("unexpected error: %v\n%s", testerr, outFail(entry, nil))
		return
	}

	errStr := testerr.Error()

	if true != expected {
		if pass, _ := MatchNode(expected, errStr); !pass {
			t.Errorf("error mismatch: [%s] <=> [%s]", bystruct.Stringify(expected), errStr)
			return
		}
	}

	if nil != entry["match"] {
		pass, err := MatchNode(entry["match"], map[string]any{
			"in":   entry["in"],
			"args": entry["args"],
			"out":  entry["res"],
			"err":  errStr,
		})
		if !pass {
			t.Errorf("match fail: %v", err)
		}
	}
}

func outFail(entry map[string]any, res any) string {
	return fmt.Sprintf("Entry:\n%s\nExpected:\n%s\nGot:\n%s",
		bystruct.Dump(entry["in"]), bystruct.Dump(entry["out"]), bystruct.Dump(res))
}

// MatchNode checks that every scalar in check matches the value at
// the same path in base (see MatchScalar).
func MatchNode(check any, base any) (bool, error) {
	pass := true
	var err error

	bystruct.Walk(check, func(key *string, val any, _ any, path []string) any {
		if bystruct.IsNode(val) {
			return val
		}

		baseval := base
		if 0 < len(path) {
			baseval = bystruct.GetPath(path, base)
		}

		if !MatchScalar(val, baseval) {
			pass = false
			err = fmt.Errorf("match: %s: [%s] <=> [%s]",
				bystruct.Pathify(path),
				bystruct.Stringify(val),
				bystruct.Stringify(baseval),
			)
		}
		return val
	})

	return pass, err
}

// MatchScalar compares a check value with a base value. Strings match
// as a case insensitive substring of the stringified base, or as a
// regular expression when written /like this/. A function check
// matches anything.
func MatchScalar(check, base any) bool {
	if bystruct.IsFunc(check) {
		return true
	}

	if s, ok := check.(string); ok && UndefMark == s {
		return nil == base
	}

	if !bystruct.IsNode(base) && check == base {
		return true
	}

	checkStr, ok := check.(string)
	if !ok {
		return false
	}

	basestr := bystruct.Stringify(base)

	if 2 < len(checkStr) && '/' == checkStr[0] && '/' == checkStr[len(checkStr)-1] {
		rx, err := regexp.Compile(checkStr[1 : len(checkStr)-1])
		return err == nil && rx.MatchString(basestr)
	}

	return strings.Contains(strings.ToLower(basestr), strings.ToLower(checkStr))
}

// Subjectify adapts a function to a Subject. Missing arguments are
// passed as zero values. A function may return nothing, a value, or
// a value and an error.
func Subjectify(fn any) Subject {
	if sfn, ok := fn.(Subject); ok {
		return sfn
	}
	if sfn, ok := fn.(func(args ...any) (any, error)); ok {
		return sfn
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("subjectify: not a function: %T", fn))
	}

	fnType := v.Type()

	return func(args ...any) (any, error) {
		in := make([]reflect.Value, fnType.NumIn())

		for i := range in {
			paramType := fnType.In(i)

			if fnType.IsVariadic() && i == fnType.NumIn()-1 {
				in = in[:i]
				break
			}

			var arg any
			if i < len(args) {
				arg = args[i]
			}

			if nil == arg {
				in[i] = reflect.Zero(paramType)
				continue
			}

			val := reflect.ValueOf(arg)
			if !val.Type().AssignableTo(paramType) {
				return nil, fmt.Errorf(
					"subjectify: argument %d type %T not assignable to parameter type %s",
					i, arg, paramType,
				)
			}
			in[i] = val
		}

		out := v.Call(in)

		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			return out[0].Interface(), nil
		case 2:
			var err error
			if e := out[1].Interface(); nil != e {
				err = e.(error)
			}
			return out[0].Interface(), err
		}

		return nil, fmt.Errorf("subjectify: function returns too many values (%d)", len(out))
	}
}

// NullModifier is a modify callback that turns NullMark strings back
// into absent values, so that test data can express null inside
// injected trees.
func NullModifier(
	val any,
	key any,
	parent any,
	state *bystruct.Injection,
	current any,
	store any,
) {
	if s, ok := val.(string); ok {
		if NullMark == s {
			bystruct.SetProp(parent, key, nil)
		} else if strings.Contains(s, NullMark) {
			bystruct.SetProp(parent, key, strings.ReplaceAll(s, NullMark, "null"))
		}
	}
}
