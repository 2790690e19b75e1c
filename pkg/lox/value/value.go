// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the tagged-union Value representation shared
// by every other loxvm package: the operand stack, the constant pool, and
// every heap object's fields all hold Values.
package value

import "fmt"

// Kind discriminates the variants of Value.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Number
	Obj
)

// Object is implemented by every heap-allocated type (pkg/lox/object).
// Value only needs identity and a type tag from it, so the interface
// stays narrow and value does not import object (object imports value).
type Object interface {
	// ObjKind returns the concrete heap-object kind, used by IsObjKind
	// to test a Value's object variant without a type switch.
	ObjKind() uint8
}

// Value is an immutable tagged union: nil, bool, number, or a reference
// to a heap Object. The zero Value is Nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	o    Object
}

func NilValue() Value               { return Value{kind: Nil} }
func BoolValue(b bool) Value        { return Value{kind: Bool, b: b} }
func NumberValue(n float64) Value   { return Value{kind: Number, n: n} }
func ObjValue(o Object) Value       { return Value{kind: Obj, o: o} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNil() bool  { return v.kind == Nil }
func (v Value) IsBool() bool { return v.kind == Bool }
func (v Value) IsNumber() bool { return v.kind == Number }
func (v Value) IsObj() bool  { return v.kind == Obj }

func (v Value) AsBool() bool     { return v.b }
func (v Value) AsNumber() float64 { return v.n }
func (v Value) AsObj() Object    { return v.o }

// IsObjKind reports whether v holds an Obj whose ObjKind matches k. Callers
// in object/vm use this (with their own kind constants) instead of a type
// switch here, keeping this package ignorant of the concrete object types.
func (v Value) IsObjKind(k uint8) bool {
	return v.kind == Obj && v.o != nil && v.o.ObjKind() == k
}

// Falsey implements Lox truthiness: nil and false are falsey, everything
// else — including 0 and "" — is truthy.
func (v Value) Falsey() bool {
	switch v.kind {
	case Nil:
		return true
	case Bool:
		return !v.b
	default:
		return false
	}
}

func (v Value) Truthy() bool { return !v.Falsey() }

// Equal implements Lox value equality. Obj equality is reference identity
// (AsObj() pointer/interface equality) — this is exactly right for interned
// strings, and the right notion of equality for every other object kind
// too.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Nil:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.n == b.n
	case Obj:
		return a.o == b.o
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(v.n)
	case Obj:
		if s, ok := v.o.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("<obj %T>", v.o)
	default:
		return "<invalid value>"
	}
}

func formatNumber(n float64) string {
	return fmt.Sprintf("%g", n)
}
