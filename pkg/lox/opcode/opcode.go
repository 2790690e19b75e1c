// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opcode names the bytecode instruction set the interpreter
// loop (pkg/lox/vm) dispatches over and the compiler (pkg/lox/compiler)
// emits.
package opcode

type Code byte

const (
	Constant Code = iota
	Nil
	True
	False
	Pop
	GetLocal
	SetLocal
	GetGlobal
	DefineGlobal
	SetGlobal
	GetUpvalue
	SetUpvalue
	GetProperty
	SetProperty
	GetSuper
	Equal
	Greater
	Less
	Add
	Subtract
	Multiply
	Divide
	Not
	Negate
	Print
	Jump
	JumpIfFalse
	Loop
	Call
	Invoke
	SuperInvoke
	Closure
	CloseUpvalue
	Return
	Class
	Inherit
	Method
	Throw
)

var names = [...]string{
	Constant:     "OP_CONSTANT",
	Nil:          "OP_NIL",
	True:         "OP_TRUE",
	False:        "OP_FALSE",
	Pop:          "OP_POP",
	GetLocal:     "OP_GET_LOCAL",
	SetLocal:     "OP_SET_LOCAL",
	GetGlobal:    "OP_GET_GLOBAL",
	DefineGlobal: "OP_DEFINE_GLOBAL",
	SetGlobal:    "OP_SET_GLOBAL",
	GetUpvalue:   "OP_GET_UPVALUE",
	SetUpvalue:   "OP_SET_UPVALUE",
	GetProperty:  "OP_GET_PROPERTY",
	SetProperty:  "OP_SET_PROPERTY",
	GetSuper:     "OP_GET_SUPER",
	Equal:        "OP_EQUAL",
	Greater:      "OP_GREATER",
	Less:         "OP_LESS",
	Add:          "OP_ADD",
	Subtract:     "OP_SUBTRACT",
	Multiply:     "OP_MULTIPLY",
	Divide:       "OP_DIVIDE",
	Not:          "OP_NOT",
	Negate:       "OP_NEGATE",
	Print:        "OP_PRINT",
	Jump:         "OP_JUMP",
	JumpIfFalse:  "OP_JUMP_IF_FALSE",
	Loop:         "OP_LOOP",
	Call:         "OP_CALL",
	Invoke:       "OP_INVOKE",
	SuperInvoke:  "OP_SUPER_INVOKE",
	Closure:      "OP_CLOSURE",
	CloseUpvalue: "OP_CLOSE_UPVALUE",
	Return:       "OP_RETURN",
	Class:        "OP_CLASS",
	Inherit:      "OP_INHERIT",
	Method:       "OP_METHOD",
	Throw:        "OP_THROW",
}

func (c Code) String() string {
	if int(c) < len(names) && names[c] != "" {
		return names[c]
	}
	return "OP_UNKNOWN"
}
