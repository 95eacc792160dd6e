/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Debug logging goes to the zap global logger, which is a no-op until
// the host program calls zap.ReplaceGlobals. Call sites check
// _debugOn first so that fields are only built when needed.

func _debugOn() bool {
	return zap.L().Core().Enabled(zapcore.DebugLevel)
}

func _debug(msg string, fields ...zap.Field) {
	zap.L().Named("bystruct").Debug(msg, fields...)
}

func _pathField(path []string) zap.Field {
	return zap.String("path", Pathify(path, 1))
}
