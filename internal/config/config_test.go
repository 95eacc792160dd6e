/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-perigolo/bystruct/internal/codec"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Paths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, codec.JSON, cfg.Format())
	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.Color)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Validate.Collect)
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()

	content := `
output: yaml
indent: 4
color: false
log:
  level: debug
validate:
  collect: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bystruct.yaml"), []byte(content), 0644))

	cfg, err := Load(Options{Paths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, codec.YAML, cfg.Format())
	assert.Equal(t, 4, cfg.Indent)
	assert.False(t, cfg.Color)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Validate.Collect)
}

func TestLoadExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("output: dump\n"), 0644))

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, codec.Dump, cfg.Format())

	_, err = Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("BYSTRUCT_INDENT", "6")
	t.Setenv("BYSTRUCT_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "json", "")
	require.NoError(t, flags.Parse([]string{"-o", "yaml"}))

	cfg, err := Load(Options{Paths: []string{t.TempDir()}, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Indent)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"output", "output: xml\n"},
		{"indent", "indent: 12\n"},
		{"log level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bystruct.yaml"), []byte(tt.content), 0644))

			_, err := Load(Options{Paths: []string{dir}})
			assert.Error(t, err)
		})
	}
}
