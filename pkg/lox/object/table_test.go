// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

func TestTableSetGetDelete(t *testing.T) {
	tbl := object.NewTable()
	key := object.NewString("greeting", object.HashString("greeting"))

	_, ok := tbl.Get(key)
	assert.False(t, ok)

	isNew := tbl.Set(key, value.NumberValue(42))
	assert.True(t, isNew)

	got, ok := tbl.Get(key)
	assert.True(t, ok)
	assert.Equal(t, float64(42), got.AsNumber())

	isNew = tbl.Set(key, value.NumberValue(7))
	assert.False(t, isNew)
	got, _ = tbl.Get(key)
	assert.Equal(t, float64(7), got.AsNumber())

	deleted := tbl.Delete(key)
	assert.True(t, deleted)
	_, ok = tbl.Get(key)
	assert.False(t, ok)
}

func TestTableFindStringRecoversCanonicalKey(t *testing.T) {
	tbl := object.NewTable()
	canonical := object.NewString("hello", object.HashString("hello"))
	tbl.Set(canonical, value.BoolValue(true))

	found := tbl.FindString("hello", object.HashString("hello"))
	assert.Same(t, canonical, found)

	assert.Nil(t, tbl.FindString("goodbye", object.HashString("goodbye")))
}

func TestTableGrowsAndPreservesEntries(t *testing.T) {
	tbl := object.NewTable()
	keys := make([]*object.String, 0, 64)
	for i := 0; i < 64; i++ {
		s := string(rune('a' + i%26))
		for j := 0; j < i/26; j++ {
			s += string(rune('a' + j))
		}
		k := object.NewString(s, object.HashString(s))
		keys = append(keys, k)
		tbl.Set(k, value.NumberValue(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		assert.True(t, ok)
		assert.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableAddAllCopiesDown(t *testing.T) {
	superMethods := object.NewTable()
	name := object.NewString("speak", object.HashString("speak"))
	superMethods.Set(name, value.NumberValue(1))

	subMethods := object.NewTable()
	superMethods.AddAll(subMethods)

	got, ok := subMethods.Get(name)
	assert.True(t, ok)
	assert.Equal(t, float64(1), got.AsNumber())
}

func TestTableRemoveWhiteDropsUnmarked(t *testing.T) {
	tbl := object.NewTable()
	live := object.NewString("live", object.HashString("live"))
	dead := object.NewString("dead", object.HashString("dead"))
	tbl.Set(live, value.BoolValue(true))
	tbl.Set(dead, value.BoolValue(true))
	live.Mark()

	tbl.RemoveWhite(func(s *object.String) bool { return s.IsMarked() })

	_, ok := tbl.Get(live)
	assert.True(t, ok)
	_, ok = tbl.Get(dead)
	assert.False(t, ok)
}
