// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

// Closure is a runtime pairing of a Function with its captured upvalues.
// It does not own Function (Functions live in a constant pool and may be
// shared by several closures); it does own the Upvalues slice, sized by
// Function.UpvalueCount .
type Closure struct {
	Header
	Function *Function
	Upvalues []*Upvalue
}

func NewClosure(fn *Function) *Closure {
	c := &Closure{
		Function: fn,
		Upvalues: make([]*Upvalue, fn.UpvalueCount),
	}
	c.Header = newHeader(KindClosure)
	return c
}

func (c *Closure) ByteSize() uintptr {
	return 32 + uintptr(len(c.Upvalues))*8
}

func (c *Closure) String() string { return c.Function.String() }

var _ Object = (*Closure)(nil)
