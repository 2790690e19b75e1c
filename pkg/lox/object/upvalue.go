// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// Upvalue is either open — Location points into a live operand-stack
// slot — or closed, in which case Location points at its own `closed`
// field. The operand stack is a fixed-capacity array (pkg/lox/vm), so a
// raw Go pointer into it stays valid until the frame that owns the slot
// is torn down, by which point closeUpvalues has already hoisted
// anything still open.
//
// OpenNext threads the VM's open-upvalues list, kept sorted by
// descending stack address; it is distinct from Header's
// Next/SetNext, which thread the all-objects list instead.
type Upvalue struct {
	Header
	Location *value.Value
	closed   value.Value
	OpenNext *Upvalue
}

func NewUpvalue(slot *value.Value) *Upvalue {
	u := &Upvalue{Location: slot}
	u.Header = newHeader(KindUpvalue)
	return u
}

// IsOpen reports whether Location still points into the stack rather
// than at this Upvalue's own closed slot.
func (u *Upvalue) IsOpen() bool { return u.Location != &u.closed }

// Close hoists the referenced value into the Upvalue's own storage and
// retargets Location at it, per closeUpvalues.
func (u *Upvalue) Close() {
	u.closed = *u.Location
	u.Location = &u.closed
}

func (u *Upvalue) Get() value.Value  { return *u.Location }
func (u *Upvalue) Set(v value.Value) { *u.Location = v }

func (u *Upvalue) ByteSize() uintptr { return 40 }
func (u *Upvalue) String() string    { return "upvalue" }

var _ Object = (*Upvalue)(nil)
