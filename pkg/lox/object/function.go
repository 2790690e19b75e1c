// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import (
	"fmt"

	"github.com/loxvm/loxvm/pkg/lox/chunk"
)

// Function is a compiled Lox function: its arity, declared upvalue count,
// optional name (nil for the implicit top-level script), and its owned
// Chunk. Destroying a Function destroys its Chunk .
type Function struct {
	Header
	Arity        int
	UpvalueCount int
	Name         *String
	Chunk        *chunk.Chunk
}

func NewFunction() *Function {
	f := &Function{Chunk: chunk.New()}
	f.Header = newHeader(KindFunction)
	return f
}

func (f *Function) ByteSize() uintptr {
	return 64 + uintptr(len(f.Chunk.Code))*9 // code byte + line int, rough
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

var _ Object = (*Function)(nil)
