// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package object

import "github.com/loxvm/loxvm/pkg/lox/value"

// loadFactorMax is the fill ratio past which Table doubles its backing
// array.
const loadFactorMax = 0.75

// entry is one slot of the open-addressed backing array. A nil Key with
// present=false is an empty slot ending a probe sequence; a nil Key with
// present=true is a tombstone, which does not stop a probe but may be
// reused on insert.
type entry struct {
	key     *String
	val     value.Value
	present bool // tombstone marker when key == nil
}

// Table is an open-addressed, linear-probing, tombstoned map from
// interned *String keys to Values. Because keys are always
// canonical interned strings, key equality is pointer identity — no
// byte comparison is needed once a String is in hand, which is exactly
// why FindString exists: to get from raw bytes to a canonical key
// before a lookup or insert.
type Table struct {
	entries []entry
	count   int // live entries + tombstones, for the load-factor check
}

func NewTable() *Table { return &Table{} }

func (t *Table) Count() int { return t.count }

// Get returns the Value stored under key and whether it was found.
func (t *Table) Get(key *String) (value.Value, bool) {
	if len(t.entries) == 0 || key == nil {
		return value.NilValue(), false
	}
	e := t.find(key)
	if e.key == nil {
		return value.NilValue(), false
	}
	return e.val, true
}

// Set stores val under key, growing the table first if needed, and
// reports whether this inserted a brand new key (true) versus updating
// an existing one (false) — OP_SET_GLOBAL relies on that distinction to
// roll back (delete) an assignment to a variable that was never declared.
func (t *Table) Set(key *String, val value.Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*loadFactorMax {
		t.grow(growCapacity(len(t.entries)))
	}
	e := t.find(key)
	isNewKey := e.key == nil
	if isNewKey && !e.present {
		t.count++
	}
	e.key = key
	e.val = val
	e.present = true
	return isNewKey
}

// Delete writes a tombstone at key's slot and reports whether key was
// present.
func (t *Table) Delete(key *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.val = value.BoolValue(true) // tombstone sentinel value, never read
	e.present = true
	return true
}

// AddAll copies every live entry of t into dst — used by OP_INHERIT's
// method copy-down.
func (t *Table) AddAll(dst *Table) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			dst.Set(e.key, e.val)
		}
	}
}

// FindString looks up an interned string by its raw content, used by
// the intern set to decide whether the VM's internString must allocate.
// It is the one lookup in this package that cannot start from a
// canonical key, since the whole point is to discover whether one
// already exists.
func (t *Table) FindString(chars string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	mask := uint32(len(t.entries) - 1)
	index := hash & mask
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !e.present {
				return nil // empty slot: probe ends, not found
			}
			// tombstone: keep probing
		} else if e.key.Hash == hash && e.key.Chars == chars {
			return e.key
		}
		index = (index + 1) & mask
	}
}

// RemoveWhite drops every entry whose key String was not marked this GC
// cycle, preventing the intern set from resurrecting dead strings
// . Callers pass a predicate instead of importing gc to
// avoid a package cycle; gc supplies `(*String).IsMarked`.
func (t *Table) RemoveWhite(isMarked func(*String) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !isMarked(e.key) {
			t.Delete(e.key)
		}
	}
}

// Each calls fn for every live key/value pair, used by the GC to mark
// both keys and values of method tables, field tables, and globals.
func (t *Table) Each(fn func(key *String, val value.Value)) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil {
			fn(e.key, e.val)
		}
	}
}

func (t *Table) find(key *String) *entry {
	mask := uint32(len(t.entries) - 1)
	index := key.Hash & mask
	var tombstone *entry
	for {
		e := &t.entries[index]
		if e.key == nil {
			if !e.present {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.key == key {
			return e
		}
		index = (index + 1) & mask
	}
}

func (t *Table) grow(capacity int) {
	old := t.entries
	t.entries = make([]entry, capacity)
	t.count = 0
	for i := range old {
		e := &old[i]
		if e.key != nil {
			t.Set(e.key, e.val)
		}
	}
}

func growCapacity(old int) int {
	if old < 8 {
		return 8
	}
	return old * 2
}
