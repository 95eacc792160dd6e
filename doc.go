/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

/*
Package bystruct manipulates in-memory JSON-like trees.

A tree is composed of nested "nodes" (maps and lists) holding scalar
leaves. The design principle is "by-example": a transform
specification is a literal example of the desired output, with
backtick escapes marking the dynamic parts.

	Transform(
	  map[string]any{"a": 1},
	  map[string]any{"x": "`a`"},
	) // => {"x": 1}

Main utilities
  - GetPath: get the value at a key path deep inside a node.
  - Merge: merge multiple nodes, later values win.
  - Walk: walk a node tree depth first, rewriting it in place.
  - Inject: inject values from a store into a new tree.
  - Transform: transform data into the shape of an example tree.
  - Validate: validate data against a shape example.

Minor utilities
  - IsNode, IsMap, IsList, IsKey, IsFunc, IsEmpty: value kinds.
  - KeysOf, Items, HasKey, GetProp, SetProp: tolerant accessors.
  - Clone: structural copy, callables copied by reference.
  - Stringify, Pathify: human readable renderings.
  - EscRe, EscUrl, JoinUrl: string helpers.

The Go nil value is the absent marker. JSON null decodes to nil and
so is also treated as absent; callers that need to distinguish the
two should map null to a sentinel before calling in.
*/
package bystruct
