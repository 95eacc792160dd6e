/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectKeys(t *testing.T) {
	keys := _injectKeys(map[string]any{
		"`$MERGE1`": 0,
		"b":         0,
		"`$MERGE0`": 0,
		"a":         0,
	})
	assert.Equal(t, []string{"a", "b", "`$MERGE0`", "`$MERGE1`"}, keys)

	assert.Equal(t, []string{"0", "1"}, _injectKeys([]any{"x", "y"}))
	assert.Empty(t, _injectKeys("x"))
}

func TestUnescapeRef(t *testing.T) {
	assert.Equal(t, "$BT", _unescapeRef("$BT"))
	assert.Equal(t, "a`b", _unescapeRef("a$BTb"))
	assert.Equal(t, "a$b", _unescapeRef("a$DSb"))
	assert.Equal(t, "$TOP", _unescapeRef("$TOP"))
}

func TestFullRef(t *testing.T) {
	store := map[string]any{"$COPY": Injector(Transform_COPY)}

	ref, ok := _fullRef("`a.b`", store)
	assert.True(t, ok)
	assert.Equal(t, "a.b", ref)

	ref, ok = _fullRef("`$MERGE2`", store)
	assert.True(t, ok)
	assert.Equal(t, "$MERGE", ref)

	ref, ok = _fullRef("$COPY", store)
	assert.True(t, ok)
	assert.Equal(t, "$COPY", ref)

	_, ok = _fullRef("$NOPE", store)
	assert.False(t, ok)

	_, ok = _fullRef("x`a`", store)
	assert.False(t, ok)
}

func TestKeyCoercion(t *testing.T) {
	ki, ok := _intKey(2.9)
	assert.True(t, ok)
	assert.Equal(t, 2, ki)

	ki, ok = _intKey("7")
	assert.True(t, ok)
	assert.Equal(t, 7, ki)

	_, ok = _intKey("x")
	assert.False(t, ok)

	_, ok = _intKey(true)
	assert.False(t, ok)

	assert.Equal(t, "1.5", _strKey(1.5))
	assert.Equal(t, "3", _strKey(int64(3)))
	assert.Equal(t, "", _strKey(nil))
}

func TestReplaceParent(t *testing.T) {
	root := map[string]any{"a": []any{1, 2}}
	wrapper := map[string]any{S_DTOP: root}

	state := &Injection{
		Path:   []string{S_DTOP, "a", "0"},
		Nodes:  []any{wrapper, root, root["a"]},
		Parent: root["a"],
	}

	_replaceParent(state, []any{9})

	assert.Equal(t, []any{9}, state.Parent)
	assert.Equal(t, []any{9}, root["a"])
	assert.Equal(t, []any{9}, state.Nodes[2])
}

func TestSetParentPropRewind(t *testing.T) {
	list := []any{"a", "b", "c"}
	wrapper := map[string]any{S_DTOP: list}

	state := &Injection{
		Mode:   InjectModeVal,
		KeyI:   1,
		Key:    "1",
		Parent: list,
		Path:   []string{S_DTOP, "1"},
		Nodes:  []any{wrapper, list},
	}

	assert.True(t, _setParentProp(state, nil))
	assert.Equal(t, 0, state.KeyI)
	assert.Equal(t, []any{"a", "c"}, wrapper[S_DTOP])

	// Replacing a value keeps the index.
	state.KeyI = 1
	assert.False(t, _setParentProp(state, "x"))
	assert.Equal(t, 1, state.KeyI)
	assert.Equal(t, []any{"a", "x"}, wrapper[S_DTOP])

	// Key phases do not move the index.
	state.Mode = InjectModeKeyPre
	assert.False(t, _setParentProp(state, nil))
	assert.Equal(t, 1, state.KeyI)
	assert.Equal(t, []any{"a"}, wrapper[S_DTOP])
}
