/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jose-perigolo/bystruct"
)

// printError writes a command error. Validation messages are listed
// one per line.
func printError(w io.Writer, err error) {
	errorColor := color.New(color.FgRed, color.Bold)
	itemColor := color.New(color.FgYellow)

	var verr *bystruct.ValidationError
	if errors.As(err, &verr) {
		errorColor.Fprintf(w, "Invalid data (%d):\n", len(verr.Messages))
		for _, msg := range verr.Messages {
			itemColor.Fprintf(w, "  - %s\n", msg)
		}
		return
	}

	errorColor.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
}
