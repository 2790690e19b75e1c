// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// stringHeaderBytes approximates the fixed overhead of a String object
// (header fields plus the Go string header) for the bytesAllocated
// ledger; it is a constant estimate, not a real unsafe.Sizeof, since the
// ledger only needs to trend the same way the real heap would.
const stringHeaderBytes = 40

// String is an immutable, interned byte sequence with a precomputed
// FNV-1a hash. Two Strings with equal contents are always the same
// *String — see object.Table.FindString and the intern set it backs.
type String struct {
	Header
	Chars string
	Hash  uint32
}

// NewString constructs a String wrapper around chars with the given
// precomputed hash. It does not intern — callers go through the VM's
// string-interning helper to get a canonical instance.
func NewString(chars string, hash uint32) *String {
	s := &String{Chars: chars, Hash: hash}
	s.Header = newHeader(KindString)
	return s
}

// HashString implements FNV-1a over the raw bytes.
func HashString(chars string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(chars); i++ {
		hash ^= uint32(chars[i])
		hash *= 16777619
	}
	return hash
}

func (s *String) ByteSize() uintptr { return uintptr(len(s.Chars)) + stringHeaderBytes }
func (s *String) String() string    { return s.Chars }

var _ Object = (*String)(nil)
var _ value.Object = (*String)(nil)
