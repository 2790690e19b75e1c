// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"reflect"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// MarkValue marks v's referenced object, if any (non-Obj Values don't
// touch the heap at all).
func (c *Collector) MarkValue(v value.Value) {
	if v.IsObj() {
		if o, ok := v.AsObj().(object.Object); ok {
			c.MarkObject(o)
		}
	}
}

// MarkObject marks o gray: sets its mark bit and pushes it onto the
// worklist so blacken visits its outgoing references later. A nil o
// (an unset optional reference, e.g. a top-level Function's Name) is a
// no-op, whether it arrives as a nil interface or a typed nil pointer.
func (c *Collector) MarkObject(o object.Object) {
	if o == nil || reflect.ValueOf(o).IsNil() || o.IsMarked() {
		return
	}
	if c.logGC {
		c.logger.Debugf("mark %s", o.Kind())
	}
	o.Mark()
	c.gray = append(c.gray, o)
}

// blacken scans one gray object's outgoing references and marks each.
func (c *Collector) blacken(o object.Object) {
	if c.logGC {
		c.logger.Debugf("blacken %s", o.Kind())
	}
	switch o.Kind() {
	case object.KindString, object.KindNative:
		// no outgoing references

	case object.KindUpvalue:
		u := o.(*object.Upvalue)
		// Safe to mark even while still open: the location then points
		// into the stack, which is already a root.
		c.MarkValue(u.Get())

	case object.KindFunction:
		f := o.(*object.Function)
		if f.Name != nil {
			c.MarkObject(f.Name)
		}
		for _, v := range f.Chunk.Constants {
			c.MarkValue(v)
		}

	case object.KindClosure:
		cl := o.(*object.Closure)
		c.MarkObject(cl.Function)
		for _, u := range cl.Upvalues {
			c.MarkObject(u)
		}

	case object.KindClass:
		cls := o.(*object.Class)
		c.MarkObject(cls.Name)
		cls.Methods.Each(func(key *object.String, val value.Value) {
			c.MarkObject(key)
			c.MarkValue(val)
		})

	case object.KindInstance:
		inst := o.(*object.Instance)
		c.MarkObject(inst.Class)
		inst.Fields.Each(func(key *object.String, val value.Value) {
			c.MarkObject(key)
			c.MarkValue(val)
		})

	case object.KindBoundMethod:
		bm := o.(*object.BoundMethod)
		c.MarkValue(bm.Receiver)
		c.MarkObject(bm.Method)
	}
}
