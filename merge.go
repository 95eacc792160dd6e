/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

// Merge a list of values into each other. Later values have
// precedence.  Nodes override scalars. Node kinds (list or map)
// override each other, and do *not* merge.  The first element is
// modified where possible.
func Merge(val any) any {
	if !IsList(val) {
		return val
	}

	list := _listify(val)
	if 0 == len(list) {
		return nil
	}
	if 1 == len(list) {
		return list[0]
	}

	out := GetProp(list, 0, map[string]any{})

	for _, obj := range list[1:] {
		if !IsNode(obj) || !IsNode(out) || IsMap(obj) != IsMap(out) {
			// Scalars win, and nodes win over other kinds.
			out = obj
			continue
		}
		out = _mergeNode(out, obj)
	}

	return out
}

// _mergeNode walks obj, writing each leaf (or empty node) into the
// matching path of out. Walk is post-order, so a child node has been
// fully merged into cur[depth+1] by the time its own key is visited.
func _mergeNode(out any, obj any) any {
	cur := []any{out}

	Walk(obj, func(key *string, val any, parent any, path []string) any {
		if nil == key {
			return val
		}

		cI := len(path) - 1
		for len(cur) <= cI+1 {
			cur = append(cur, nil)
		}

		if nil == cur[cI] {
			cur[cI] = _getPathPlain(path[:cI], cur[0])
		}

		// Create node if needed, replacing scalars and other node kinds.
		if !IsNode(cur[cI]) || IsList(cur[cI]) != IsList(parent) {
			if IsList(parent) {
				cur[cI] = []any{}
			} else {
				cur[cI] = map[string]any{}
			}
		}

		if IsNode(val) && !IsEmpty(val) {
			cur[cI] = SetProp(cur[cI], *key, cur[cI+1])
			cur[cI+1] = nil
		} else {
			cur[cI] = SetProp(cur[cI], *key, val)
		}

		return val
	})

	return cur[0]
}

// _getPathPlain descends through a key list without any store or
// handler conventions.
func _getPathPlain(path []string, val any) any {
	for _, part := range path {
		if nil == val {
			return nil
		}
		val = GetProp(val, part)
	}
	return val
}
