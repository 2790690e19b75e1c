// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/loxvm/loxvm/pkg/lox/gc"
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// MarkRoots implements gc.RootMarker. It marks every value the
// collector must treat as reachable independent of heap references:
// the live operand stack, every active frame's closure, every open
// upvalue, both key and value of each globals entry, the interned
// "init" literal, and — while a compile is in flight — the
// compiler's own in-progress functions.
func (v *VM) MarkRoots(c *gc.Collector) {
	for i := 0; i < v.stackTop; i++ {
		c.MarkValue(v.stack[i])
	}
	for i := 0; i < v.frameCount; i++ {
		c.MarkObject(v.frames[i].Closure)
	}
	for u := v.openUpvalues; u != nil; u = u.OpenNext {
		c.MarkObject(u)
	}
	v.globals.Each(func(key *object.String, val value.Value) {
		c.MarkObject(key)
		c.MarkValue(val)
	})

	c.MarkObject(v.init)

	if v.activeCompiler != nil {
		v.activeCompiler.MarkCompilerRoots(func(o object.Object) { c.MarkObject(o) })
	}
}
