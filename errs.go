/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package bystruct

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by the error returned from Validate when the
// data does not fit the shape.
var ErrInvalid = errors.New("invalid data")

// Errs collects error messages across a whole injection. It is owned
// by the top level call and shared by reference with every directive.
type Errs struct {
	msgs []string
}

// NewErrs creates an empty error collector.
func NewErrs() *Errs {
	return &Errs{msgs: []string{}}
}

// Append adds a message. A nil collector discards it.
func (e *Errs) Append(msg string) {
	if nil == e {
		return
	}
	e.msgs = append(e.msgs, msg)
}

func (e *Errs) Appendf(format string, args ...any) {
	e.Append(fmt.Sprintf(format, args...))
}

// List returns the collected messages in order.
func (e *Errs) List() []string {
	if nil == e {
		return nil
	}
	return e.msgs
}

func (e *Errs) Len() int {
	if nil == e {
		return 0
	}
	return len(e.msgs)
}

// ValidationError is the aggregate failure of a validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "Invalid data: " + strings.Join(e.Messages, "\n")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func _invalidTypeMsg(path []string, expected string, actual string, val any) string {
	found := S_null
	if nil != val {
		found = actual + S_CN + " " + Stringify(val, 33)
	}

	return fmt.Sprintf(
		"Expected %s at %s, found %s",
		expected,
		Pathify(path, 1),
		found,
	)
}
