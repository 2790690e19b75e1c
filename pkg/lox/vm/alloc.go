// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// register runs the GC's growth-pressure check before linking o into the
// intrusive object list: the collection check always happens before the
// new object is linked in, so a collection provoked by this very
// allocation can never see — and therefore can never sweep — the object
// being constructed.
func (v *VM) register(o object.Object) {
	v.gc.MaybeCollect(v)
	v.gc.Register(o)
}

// internString returns the canonical *object.String for chars, allocating
// and registering a new one only on a cache miss. Every identifier,
// string literal, and runtime-concatenated string passes through this
// one entry point. Go strings are already immutable values, so there is
// no separate "adopt a caller-owned buffer" path on a miss — copying a
// Go string is a pointer+length copy, not a heap copy.
func (v *VM) internString(chars string) *object.String {
	hash := object.HashString(chars)
	if s := v.strings.FindString(chars, hash); s != nil {
		return s
	}
	s := object.NewString(chars, hash)
	v.push(value.ObjValue(s)) // root it before the Set below can allocate/grow
	v.register(s)
	v.strings.Set(s, value.BoolValue(true))
	v.pop()
	return s
}

func (v *VM) newFunction() *object.Function {
	f := object.NewFunction()
	v.register(f)
	return f
}

func (v *VM) newClosure(fn *object.Function) *object.Closure {
	c := object.NewClosure(fn)
	v.register(c)
	return c
}

func (v *VM) newUpvalue(slot *value.Value) *object.Upvalue {
	u := object.NewUpvalue(slot)
	v.register(u)
	return u
}

func (v *VM) newClass(name *object.String) *object.Class {
	c := object.NewClass(name)
	v.register(c)
	return c
}

func (v *VM) newInstance(cls *object.Class) *object.Instance {
	i := object.NewInstance(cls)
	v.register(i)
	return i
}

func (v *VM) newBoundMethod(receiver value.Value, method *object.Closure) *object.BoundMethod {
	b := object.NewBoundMethod(receiver, method)
	v.register(b)
	return b
}

func (v *VM) newNative(name string, fn object.NativeFn) *object.Native {
	n := object.NewNative(name, fn)
	v.register(n)
	return n
}

// concatenate implements OP_ADD's string case. Both operands are kept on
// the stack (peeked, not popped) until after the result is allocated, so
// the GC sees them as roots for the whole operation (allocation
// discipline) — only once the new String exists do we pop the inputs.
func (v *VM) concatenate() {
	b := v.peek(0).AsObj().(*object.String)
	a := v.peek(1).AsObj().(*object.String)
	result := v.internString(a.Chars + b.Chars)
	v.pop()
	v.pop()
	v.push(value.ObjValue(result))
}
