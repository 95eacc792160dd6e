/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	// Keep any local or home config out of the way.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTransformCommand(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.yaml", "a: 1\nb: { c: x }\n")
	spec := writeFile(t, dir, "spec.json", `{"x":"`+"`a`"+`","y":"`+"`b.c`"+`","z":"a`+"`a`"+`"}`)

	code, out, errOut := run(t, "transform", "--data", data, "--spec", spec, "--indent", "0")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"x":1,"y":"x","z":"a1"}`+"\n", out)
}

func TestTransformCommandExtra(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.json", `{"a":1}`)
	extra := writeFile(t, dir, "extra.json", `{"b":2}`)
	spec := writeFile(t, dir, "spec.json", `{"x":"`+"`a`"+`","y":"`+"`b`"+`"}`)

	code, out, errOut := run(t, "transform", "-d", data, "-s", spec, "--extra", extra, "-o", "yaml")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "x: 1")
	assert.Contains(t, out, "y: 2")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	shape := writeFile(t, dir, "shape.json", `{"a":"`+"`$STRING`"+`","b":1}`)
	good := writeFile(t, dir, "good.json", `{"a":"x"}`)
	bad := writeFile(t, dir, "bad.json", `{"a":1,"c":true}`)

	code, out, errOut := run(t, "validate", "--data", good, "--spec", shape, "--indent", "0")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"a":"x","b":1}`+"\n", out)

	code, out, errOut = run(t, "validate", "--data", bad, "--spec", shape)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Expected string at a, found number: 1")
	assert.Contains(t, errOut, "Unexpected keys at <root>: c")

	code, out, errOut = run(t, "validate", "--data", bad, "--spec", shape, "--collect", "--indent", "0")
	assert.Equal(t, 1, code)
	assert.Equal(t, `{"a":1,"b":1}`+"\n", out)
	assert.Contains(t, errOut, "Invalid data (2)")
}

func TestGetPathCommand(t *testing.T) {
	dir := t.TempDir()
	store := writeFile(t, dir, "store.yaml", "a:\n  b: [10, 20]\n")

	code, out, _ := run(t, "getpath", "--store", store, "a.b.1")
	assert.Equal(t, 0, code)
	assert.Equal(t, "20\n", out)

	code, _, errOut := run(t, "getpath", "--store", store, "a.x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "path not found: a.x")
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"a":1,"n":{"x":1}}`)
	b := writeFile(t, dir, "b.yaml", "b: 2\nn:\n  y: 2\n")

	code, out, errOut := run(t, "merge", a, b, "--indent", "0")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"a":1,"b":2,"n":{"x":1,"y":2}}`+"\n", out)
}

func TestInjectCommand(t *testing.T) {
	dir := t.TempDir()
	store := writeFile(t, dir, "store.json", `{"name":"ann","n":{"v":1}}`)
	spec := writeFile(t, dir, "spec.json", `{"hi":"hello `+"`name`"+`","v":"`+"`n.v`"+`"}`)

	code, out, errOut := run(t, "inject", "--store", store, "--spec", spec, "--indent", "0")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `{"hi":"hello ann","v":1}`+"\n", out)
}

func TestCommandErrors(t *testing.T) {
	code, _, errOut := run(t, "transform", "--data", "nope.json", "--spec", "nope.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error:")

	code, _, _ = run(t, "merge")
	assert.Equal(t, 1, code)

	code, _, errOut = run(t, "getpath", "--store", "x.json", "a", "-o", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "output must be")
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "bystruct version: dev")
	assert.Contains(t, out, "Git commit:")
}
