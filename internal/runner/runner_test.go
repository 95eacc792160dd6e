/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package runner

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSet(t *testing.T) {
	r, err := New("testdata/runner.yaml", "runner")
	require.NoError(t, err)

	t.Run("add", func(t *testing.T) {
		r.RunSet(t, r.Section("add"), func(a, b int) int {
			return a + b
		})
	})

	t.Run("fail", func(t *testing.T) {
		r.RunSet(t, r.Section("fail"), func(s string) (any, error) {
			if strings.HasPrefix(s, "b") {
				return nil, errors.New(s)
			}
			return strings.ToUpper(s), nil
		})
	})

	t.Run("missing", func(t *testing.T) {
		r.RunSet(t, r.Section("missing"), func(m map[string]any) any {
			if 0 == len(m) {
				return nil
			}
			return m
		})
	})
}

func TestNewErrors(t *testing.T) {
	_, err := New("testdata/nope.yaml", "runner")
	assert.Error(t, err)

	_, err = New("testdata/runner.txt", "runner")
	assert.Error(t, err)
}

func TestResolveSpec(t *testing.T) {
	all := map[string]any{
		"primary": map[string]any{"x": map[string]any{"p": 1}},
		"y":       map[string]any{"q": 2},
	}

	assert.Equal(t, map[string]any{"p": 1}, resolveSpec("x", all))
	assert.Equal(t, map[string]any{"q": 2}, resolveSpec("y", all))
	assert.Equal(t, all, resolveSpec("z", all))
}

func TestMatchScalar(t *testing.T) {
	assert.True(t, MatchScalar(1, 1))
	assert.False(t, MatchScalar(1, 2))
	assert.True(t, MatchScalar("ell", "HELLO"))
	assert.True(t, MatchScalar("/^h.*o$/", "hello"))
	assert.False(t, MatchScalar("/^x/", "hello"))
	assert.True(t, MatchScalar(UndefMark, nil))
	assert.False(t, MatchScalar(UndefMark, 1))
	assert.True(t, MatchScalar(func() {}, "anything"))
	assert.True(t, MatchScalar("a:1", map[string]any{"a": 1}))
}

func TestMatchNode(t *testing.T) {
	base := map[string]any{
		"out": map[string]any{"a": 1, "b": []any{"x", "y"}},
	}

	pass, err := MatchNode(map[string]any{"out": map[string]any{"a": 1}}, base)
	assert.True(t, pass)
	assert.NoError(t, err)

	pass, err = MatchNode(map[string]any{"out": map[string]any{"b": []any{nil, "y"}}}, base)
	assert.False(t, pass, "nil check must match absent only")
	assert.Error(t, err)

	pass, _ = MatchNode(map[string]any{"out": map[string]any{"b": []any{"x"}}}, base)
	assert.True(t, pass)

	pass, err = MatchNode(map[string]any{"out": map[string]any{"c": 2}}, base)
	assert.False(t, pass)
	assert.Contains(t, err.Error(), "out.c")
}

func TestSubjectify(t *testing.T) {
	s := Subjectify(func(a string, b int) (string, error) {
		return strings.Repeat(a, b), nil
	})
	out, err := s("ab", 2)
	require.NoError(t, err)
	assert.Equal(t, "abab", out)

	// Missing arguments are zero values.
	out, err = s("ab")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	_, err = s(1, 2)
	assert.Error(t, err)

	none := Subjectify(func() {})
	out, err = none()
	assert.NoError(t, err)
	assert.Nil(t, out)

	assert.Panics(t, func() { Subjectify("not a function") })
}

func TestNullModifier(t *testing.T) {
	parent := map[string]any{"a": NullMark, "b": "x" + NullMark, "c": 1}

	NullModifier(parent["a"], "a", parent, nil, nil, nil)
	NullModifier(parent["b"], "b", parent, nil, nil, nil)
	NullModifier(parent["c"], "c", parent, nil, nil, nil)

	assert.Equal(t, map[string]any{"b": "xnull", "c": 1}, parent)
}
