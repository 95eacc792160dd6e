/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

// String constants are explicitly defined.
const (
	// Injection modes.
	S_MKEYPRE  = "key:pre"
	S_MKEYPOST = "key:post"
	S_MVAL     = "val"

	// Special keys.
	S_TKEY  = "`$KEY`"
	S_TMETA = "`$META`"
	S_TOPEN = "`$OPEN`"
	S_DTOP  = "$TOP"
	S_DERRS = "$ERRS"

	// Injection meta keys.
	S_MITEM = "item"

	// Kind names, as reported by Typify.
	S_array    = "array"
	S_boolean  = "boolean"
	S_function = "function"
	S_number   = "number"
	S_object   = "object"
	S_string   = "string"
	S_null     = "null"

	// General strings.
	S_MT  = ""
	S_BT  = "`"
	S_DS  = "$"
	S_DT  = "."
	S_CN  = ":"
	S_CM  = ", "
	S_KEY = "KEY"
)

// For each key in a node (map or list), injection runs in three
// phases: on the key before the child, on the child value, and on
// the key again after the child.
type InjectMode string

const (
	InjectModeKeyPre  InjectMode = S_MKEYPRE
	InjectModeKeyPost InjectMode = S_MKEYPOST
	InjectModeVal     InjectMode = S_MVAL
)

// IsKeyMode reports whether m is one of the two key phases.
func (m InjectMode) IsKeyMode() bool {
	return m == InjectModeKeyPre || m == InjectModeKeyPost
}

// Handle value injections using backtick escape sequences:
//   - `a.b.c`: insert value at {a:{b:{c:1}}}
//   - `$FOO`: apply directive FOO
type Injector func(
	state *Injection, // Injection state.
	val any, // Injection value specification.
	current any, // Current source parent value.
	ref *string, // Original injection reference string.
	store any, // Current source root value.
) any

// Apply a custom modification to injections.
type Modify func(
	val any, // Value.
	key any, // Value key, if any.
	parent any, // Parent node, if any.
	state *Injection, // Injection state, if any.
	current any, // Current value in store (matches path).
	store any, // Store, if any.
)

// Function applied to each node and leaf when walking a node
// structure depth first. Map keys are strings, list keys are decimal
// strings, and the root key is nil.
type WalkApply func(
	key *string,
	val any,
	parent any,
	path []string,
) any
