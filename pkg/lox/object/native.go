// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// NativeFn is a host-provided function: it receives the argument window
// and returns a Value or an error (a Lox runtime error). It must not
// retain args past return.
type NativeFn func(args []value.Value) (value.Value, error)

// Native wraps a host function so it can be called like any other Lox
// callable: OP_CALL invokes Fn directly with the argument window instead
// of pushing a CallFrame.
type Native struct {
	Header
	Name string
	Fn   NativeFn
}

func NewNative(name string, fn NativeFn) *Native {
	n := &Native{Name: name, Fn: fn}
	n.Header = newHeader(KindNative)
	return n
}

func (n *Native) ByteSize() uintptr { return 32 }
func (n *Native) String() string    { return "<native fn " + n.Name + ">" }

var _ Object = (*Native)(nil)
