// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// BoundMethod pairs a receiver Value with the Closure it was looked up
// from, materialised by a plain property-get (GET_PROPERTY) but skipped
// on the OP_INVOKE fast path.
type BoundMethod struct {
	Header
	Receiver value.Value
	Method   *Closure
}

func NewBoundMethod(receiver value.Value, method *Closure) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	b.Header = newHeader(KindBoundMethod)
	return b
}

func (b *BoundMethod) ByteSize() uintptr { return 32 }
func (b *BoundMethod) String() string    { return b.Method.String() }

var _ Object = (*BoundMethod)(nil)
