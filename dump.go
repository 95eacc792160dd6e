/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump renders a value with its Go types, for debugging.
func Dump(val any) string {
	return dumpConfig.Sdump(val)
}
