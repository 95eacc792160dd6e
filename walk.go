/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

// Walk a data structure depth first, applying a function to each value.
// Children are applied (and their results set back into the parent)
// before the parent itself is applied. The result of apply on the
// root is returned.
func Walk(val any, apply WalkApply) any {
	return WalkDescend(val, apply, nil, nil, nil)
}

// WalkDescend walks below the given key, parent and path.
func WalkDescend(
	val any,
	apply WalkApply,
	key *string,
	parent any,
	path []string,
) any {
	if IsNode(val) {
		for _, item := range Items(val) {
			ckey := item[0].(string)

			cpath := make([]string, len(path), len(path)+1)
			copy(cpath, path)
			cpath = append(cpath, ckey)

			child := WalkDescend(item[1], apply, &ckey, val, cpath)
			val = SetProp(val, ckey, child)
		}

		if nil != parent && nil != key {
			SetProp(parent, *key, val)
		}
	}

	return apply(key, val, parent, path)
}
