// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// FramesMax is the largest number of simultaneously active call frames
// .
const FramesMax = 64

// StackMax is the operand stack's fixed capacity: FramesMax frames of
// up to 256 locals/temporaries each.
const StackMax = FramesMax * 256

// MaxHandlerFrames sizes CallFrame.Handlers — reserved,
// never populated by any opcode this core implements (open
// question on handler frames).
const MaxHandlerFrames = 16

// ExceptionHandler is a reserved per-frame exception-handler record. No
// opcode in this core writes or reads it; OP_THROW unconditionally
// unwinds instead of consulting it. It is declared so a future
// extension implementing try/catch can populate it without changing
// CallFrame's shape.
type ExceptionHandler struct {
	HandlerAddress uint16
	FinallyAddress uint16
	Class          value.Value
}

// CallFrame is one in-flight function call's slice of the operand
// stack, plus its instruction pointer. ip is an index into
// Closure.Function.Chunk.Code rather than a raw pointer, since Go slices
// don't carry a safe "one past the end" pointer.
type CallFrame struct {
	Closure *object.Closure
	IP      int
	// SlotsBase indexes into the VM's stack array: slots[0] is the
	// callable (or receiver) for this call, slots[1:] are arguments and
	// then locals.
	SlotsBase int

	HandlerCount int
	Handlers     [MaxHandlerFrames]ExceptionHandler
}

func (f *CallFrame) chunk() []byte { return f.Closure.Function.Chunk.Code }

func (f *CallFrame) readByte() byte {
	b := f.chunk()[f.IP]
	f.IP++
	return b
}

func (f *CallFrame) readShort() uint16 {
	hi := f.chunk()[f.IP]
	lo := f.chunk()[f.IP+1]
	f.IP += 2
	return uint16(hi)<<8 | uint16(lo)
}

func (f *CallFrame) readConstant() value.Value {
	idx := f.readByte()
	return f.Closure.Function.Chunk.Constants[idx]
}

func (f *CallFrame) readString() *object.String {
	return f.readConstant().AsObj().(*object.String)
}
