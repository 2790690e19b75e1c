// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "github.com/loxvm/loxvm/pkg/lox/value"

func (v *VM) push(val value.Value) {
	v.stack[v.stackTop] = val
	v.stackTop++
}

func (v *VM) pop() value.Value {
	v.stackTop--
	return v.stack[v.stackTop]
}

// peek looks distance slots below the top without popping: 0 is the
// top of the stack.
func (v *VM) peek(distance int) value.Value {
	return v.stack[v.stackTop-1-distance]
}
