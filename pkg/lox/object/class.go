// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

// Class is a named method table. OP_INHERIT copies a superclass's
// methods into a subclass's table at class-definition time
// ("copy-down" inheritance) rather than walking a class chain at
// dispatch time.
type Class struct {
	Header
	Name    *String
	Methods *Table
}

func NewClass(name *String) *Class {
	c := &Class{Name: name, Methods: NewTable()}
	c.Header = newHeader(KindClass)
	return c
}

func (c *Class) ByteSize() uintptr { return 32 }
func (c *Class) String() string    { return c.Name.Chars }

var _ Object = (*Class)(nil)
