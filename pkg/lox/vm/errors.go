// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "fmt"

// ErrorKind enumerates the runtime-error categories the interpreter can
// raise. Every kind shares the same unwind behavior; a caller that
// extracts a *RuntimeError with errors.As can read its Kind to tell the
// categories apart without parsing text.
type ErrorKind uint8

const (
	ErrArity ErrorKind = iota
	ErrStackOverflow
	ErrType
	ErrUndefinedVariable
	ErrUndefinedProperty
	ErrThrown
)

// RuntimeError is returned by Interpret when the VM began executing but
// detected an illegal operation. StackTrace is the same
// "[line L] in <name-or-script>" text that was printed to stderr.
type RuntimeError struct {
	Kind       ErrorKind
	Message    string
	StackTrace string
}

func (e *RuntimeError) Error() string {
	if e.StackTrace == "" {
		return e.Message
	}
	return fmt.Sprintf("%s\n%s", e.Message, e.StackTrace)
}

// CompileError is returned by Interpret when the front end rejected the
// program before any bytecode ran.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return e.Message }
