// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package object implements the heap-object model: the discriminated
// variants (string, function, native, closure, upvalue, class, instance,
// bound method), the intrusive all-objects list the garbage collector
// sweeps, and the open-addressed hash table those objects are stored in.
package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// Kind discriminates the heap object variants.
type Kind uint8

const (
	KindString Kind = iota
	KindFunction
	KindNative
	KindClosure
	KindUpvalue
	KindClass
	KindInstance
	KindBoundMethod
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native"
	case KindClosure:
		return "closure"
	case KindUpvalue:
		return "upvalue"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindBoundMethod:
		return "bound method"
	default:
		return "unknown"
	}
}

// Object is the interface every heap object variant satisfies. It embeds
// value.Object so any *T with a Header can be wrapped directly in a
// value.Value via value.ObjValue.
type Object interface {
	value.Object
	Kind() Kind
	IsMarked() bool
	Mark()
	Unmark()
	// Next/SetNext thread the VM's single intrusive list of every live
	// object.
	Next() Object
	SetNext(Object)
	// ByteSize approximates this object's contribution to the VM's
	// bytesAllocated ledger without actually driving Go's own
	// allocator — Go frees the backing memory whenever its own GC
	// decides to, but the collector's mark-sweep bookkeeping
	// (isMarked, gray worklist, nextGC pacing) runs against this
	// ledger as if it were managing real heap bytes.
	ByteSize() uintptr
}

// Header is embedded by every heap object and implements the bookkeeping
// fields of Object, the way an embedded struct field promotes its
// methods to the type wrapping it.
type Header struct {
	kind   Kind
	marked bool
	next   Object
}

func newHeader(k Kind) Header { return Header{kind: k} }

func (h *Header) ObjKind() uint8   { return uint8(h.kind) }
func (h *Header) Kind() Kind       { return h.kind }
func (h *Header) IsMarked() bool   { return h.marked }
func (h *Header) Mark()            { h.marked = true }
func (h *Header) Unmark()          { h.marked = false }
func (h *Header) Next() Object     { return h.next }
func (h *Header) SetNext(o Object) { h.next = o }
