// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

// Instance is a class instantiation: a reference to its Class plus an
// own field table. Field lookups shadow method lookups.
type Instance struct {
	Header
	Class  *Class
	Fields *Table
}

func NewInstance(cls *Class) *Instance {
	i := &Instance{Class: cls, Fields: NewTable()}
	i.Header = newHeader(KindInstance)
	return i
}

func (i *Instance) ByteSize() uintptr { return 32 }
func (i *Instance) String() string    { return i.Class.Name.Chars + " instance" }

var _ Object = (*Instance)(nil)
