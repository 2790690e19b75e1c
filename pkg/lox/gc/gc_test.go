// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/pkg/lox/gc"
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// fakeRoots marks only the objects explicitly handed to it, standing
// in for the VM's stack/frames/globals during a collector test.
type fakeRoots struct {
	roots []object.Object
}

func (f *fakeRoots) MarkRoots(c *gc.Collector) {
	for _, o := range f.roots {
		c.MarkObject(o)
	}
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	c := gc.New(gc.Config{})
	kept := object.NewString("kept", object.HashString("kept"))
	discarded := object.NewString("discarded", object.HashString("discarded"))

	c.Register(kept)
	c.Register(discarded)
	require.Equal(t, kept.ByteSize()+discarded.ByteSize(), c.BytesAllocated())

	c.Collect(&fakeRoots{roots: []object.Object{kept}})

	assert.Equal(t, kept.ByteSize(), c.BytesAllocated())
	assert.False(t, kept.IsMarked(), "mark bit must be cleared after sweep")
}

func TestCollectTwiceInARowIsIdempotent(t *testing.T) {
	c := gc.New(gc.Config{})
	s := object.NewString("only", object.HashString("only"))
	c.Register(s)

	roots := &fakeRoots{roots: []object.Object{s}}
	c.Collect(roots)
	firstBytes := c.BytesAllocated()
	c.Collect(roots)

	assert.Equal(t, firstBytes, c.BytesAllocated())
	assert.Equal(t, uint64(2), c.Collections())
}

func TestMaybeCollectHonorsStressPolicy(t *testing.T) {
	c := gc.New(gc.Config{Stress: true})
	s := object.NewString("stressed", object.HashString("stressed"))
	c.Register(s)

	c.MaybeCollect(&fakeRoots{})

	assert.Equal(t, uintptr(0), c.BytesAllocated())
	assert.Equal(t, uint64(1), c.Collections())
}

func TestInternTableEntryDiesWithoutAReachableRoot(t *testing.T) {
	c := gc.New(gc.Config{})
	strings := object.NewTable()
	c.SetInternTable(strings)

	s := object.NewString("ephemeral", object.HashString("ephemeral"))
	c.Register(s)
	strings.Set(s, value.BoolValue(true))

	c.Collect(&fakeRoots{}) // nothing roots s

	_, ok := strings.Get(s)
	assert.False(t, ok, "an interned string not reachable from any other root must not survive a collection")
}
