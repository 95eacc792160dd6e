/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Transform data using a spec. The spec is a literal example of the
// output, with backtick references into the data and directives.
func Transform(
	data any, // source data
	spec any, // transform specification
) any {
	return TransformModify(data, spec, nil, nil)
}

// TransformModify is Transform with an extra store and an optional
// modify callback. Extra entries whose key starts with $ are added as
// directives (a nil value unbinds a built-in); the rest are merged
// under the data.
func TransformModify(
	data any, // source data
	spec any, // transform specification
	extra any, // extra store
	modify Modify, // optional modify
) any {
	// The spec clone is modified in place to become the result.
	spec = Clone(spec)

	extraDirectives := map[string]any{}
	extraData := map[string]any{}

	for _, kv := range Items(extra) {
		k := kv[0].(string)
		if strings.HasPrefix(k, S_DS) {
			extraDirectives[k] = kv[1]
		} else {
			extraData[k] = kv[1]
		}
	}

	top := Merge([]any{
		Clone(extraData),
		Clone(data),
	})

	store := map[string]any{
		// Merged data is at $TOP.
		S_DTOP: top,

		// Escapes.
		"$BT": func() any { return S_BT },
		"$DS": func() any { return S_DS },

		// Current date and time.
		"$WHEN": func() any {
			return time.Now().UTC().Format(time.RFC3339)
		},

		"$DELETE": Injector(Transform_DELETE),
		"$COPY":   Injector(Transform_COPY),
		"$KEY":    Injector(Transform_KEY),
		"$META":   Injector(Transform_META),
		"$MERGE":  Injector(Transform_MERGE),
		"$EACH":   Injector(Transform_EACH),
		"$PACK":   Injector(Transform_PACK),
	}

	for k, v := range extraDirectives {
		store[k] = v
	}

	if _debugOn() {
		_debug("transform",
			zap.Int("directives", len(extraDirectives)),
			zap.Bool("modify", nil != modify))
	}

	return InjectDescend(spec, store, modify, store, nil)
}
