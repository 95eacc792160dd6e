/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package main

import (
	"io"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.teardown()

	rootCmd := a.rootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}
