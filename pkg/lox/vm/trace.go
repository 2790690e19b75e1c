// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"fmt"
	"strings"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// runtimeError builds a RuntimeError carrying a "[line L] in <name>"
// stack trace, walking frames from the innermost call outward, then
// resets the stack so a REPL can keep accepting input after the error
// unwinds.
func (v *VM) runtimeError(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	message := fmt.Sprintf(format, args...)

	var b strings.Builder
	for i := v.frameCount - 1; i >= 0; i-- {
		frame := &v.frames[i]
		fn := frame.Closure.Function
		line := fn.Chunk.LineAt(frame.IP - 1)
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		fmt.Fprintf(&b, "[line %d] in %s\n", line, name)
	}

	v.resetStack()
	return &RuntimeError{Kind: kind, Message: message, StackTrace: strings.TrimRight(b.String(), "\n")}
}

// throw builds the same "[line L] in <name>" trace runtimeError does,
// interns it, and writes it into instance's field table under
// "stacktrace" before unwinding — so a caught exception (once try/catch
// exists) can read where it came from, not just its message.
func (v *VM) throw(instance *object.Instance) *RuntimeError {
	var b strings.Builder
	for i := v.frameCount - 1; i >= 0; i-- {
		frame := &v.frames[i]
		fn := frame.Closure.Function
		line := fn.Chunk.LineAt(frame.IP - 1)
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		fmt.Fprintf(&b, "[line %d] in %s\n", line, name)
	}
	trace := strings.TrimRight(b.String(), "\n")

	instance.Fields.Set(v.internString("stacktrace"), value.ObjValue(v.internString(trace)))
	v.logger.Debugf("throw %s: %s", instance.String(), trace)

	v.resetStack()
	return &RuntimeError{Kind: ErrThrown, Message: instance.String(), StackTrace: trace}
}
