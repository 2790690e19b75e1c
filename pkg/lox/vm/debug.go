// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"strings"

	"github.com/loxvm/loxvm/pkg/lox/opcode"
)

// traceInstruction logs the operand stack and the instruction about to
// execute, enabled by Config.TraceExecution.
func (v *VM) traceInstruction(frame *CallFrame) {
	var b strings.Builder
	b.WriteString("          ")
	for i := 0; i < v.stackTop; i++ {
		b.WriteString("[ ")
		b.WriteString(v.stack[i].String())
		b.WriteString(" ]")
	}
	op := opcode.Code(frame.chunk()[frame.IP])
	v.logger.Debugf("%s%04d %s", b.String(), frame.IP, op)
}
