// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gc implements a tri-color, non-moving, stop-the-world
// mark-sweep collector: every heap allocation is registered with a
// Collector, which tracks a simulated bytesAllocated ledger and
// triggers a collection under either a stress policy (collect on every
// growth) or a threshold policy (collect once bytesAllocated exceeds
// nextGC).
//
// The collector never actually frees Go memory itself — Go's own
// runtime reclaims the backing storage once nothing references it —
// but it performs the bookkeeping a real mark-sweep collector would
// (mark bits, a gray worklist, intern-set cleanup, sweep-and-unlink) so
// the VM's observable behavior (when a collection runs, what
// bytesAllocated/nextGC read afterward, which strings survive) matches
// a from-scratch collector faithfully.
package gc

import "github.com/loxvm/loxvm/pkg/lox/object"

// defaultGrowFactor is the heap-growth multiplier: after a collection,
// nextGC = bytesAllocated * growFactor.
const defaultGrowFactor = 2

// defaultNextGC is the initial collection threshold, 1 MiB.
const defaultNextGC = 1024 * 1024

// Logger is the narrow interface the collector logs DEBUG_LOG_GC lines
// through. *zap.SugaredLogger satisfies this without gc importing zap.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}

// RootMarker is implemented by the VM: during a collection the
// collector calls MarkRoots once, and the VM marks every root (its
// operand stack, call frames, open upvalues, globals, the compiler
// roots callback, the interned "init" literal) by calling back into
// Collector.MarkValue/MarkObject.
type RootMarker interface {
	MarkRoots(c *Collector)
}

// Stats is a snapshot handed to an optional OnCollect hook (wired to
// pkg/lox/telemetry by the VM), reported after every collection.
type Stats struct {
	BytesBefore uintptr
	BytesAfter  uintptr
	NextGC      uintptr
	Collections uint64
	Swept       int
}

// Config selects the triggering policy.
type Config struct {
	Stress bool // DEBUG_STRESS_GC: collect on every allocation growth
	LogGC  bool // DEBUG_LOG_GC: log collector activity
	Logger Logger
	// GrowFactor overrides defaultGrowFactor (nextGC = bytesAllocated *
	// GrowFactor after each collection) when non-zero. Exposed as a
	// viper-bound setting for tuning collection frequency without
	// recompiling.
	GrowFactor uintptr
}

// Collector owns the intrusive all-objects list, the gray worklist, and
// the allocation-pressure ledger. It does not own the intern set (the
// VM does, since it's also a regular Table used for lookups); the VM
// passes it in via SetInternTable so phase 3 can run.
type Collector struct {
	head           object.Object
	gray           []object.Object
	bytesAllocated uintptr
	nextGC         uintptr
	growFactor     uintptr
	stress         bool
	logGC          bool
	logger         Logger
	strings        internTable
	collections    uint64
	onCollect      func(Stats)
}

// internTable is the subset of *object.Table the collector needs for
// phase 3 (remove unreferenced interned strings); declared narrowly so
// this package does not need object.Table's full surface.
type internTable interface {
	RemoveWhite(isMarked func(*object.String) bool)
}

func New(cfg Config) *Collector {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	growFactor := cfg.GrowFactor
	if growFactor == 0 {
		growFactor = defaultGrowFactor
	}
	return &Collector{
		nextGC:     defaultNextGC,
		growFactor: growFactor,
		stress:     cfg.Stress,
		logGC:      cfg.LogGC,
		logger:     logger,
	}
}

// SetInternTable wires the VM's string-interning table so RemoveWhite
// runs as part of every collection .
func (c *Collector) SetInternTable(t internTable) { c.strings = t }

// OnCollect registers a callback invoked with stats after every
// collection; used to feed pkg/lox/telemetry.
func (c *Collector) OnCollect(fn func(Stats)) { c.onCollect = fn }

func (c *Collector) BytesAllocated() uintptr { return c.bytesAllocated }
func (c *Collector) NextGC() uintptr         { return c.nextGC }
func (c *Collector) Collections() uint64     { return c.collections }

// Register adds a freshly allocated object to the intrusive list and
// the bytesAllocated ledger. Callers (the VM's allocation helpers) must
// call MaybeCollect beforehand, not afterward, so a growth-triggered
// collection can never run while the object being registered is still
// unlinked and therefore invisible to the mark phase.
func (c *Collector) Register(o object.Object) {
	o.SetNext(c.head)
	c.head = o
	c.bytesAllocated += o.ByteSize()
}

// MaybeCollect runs a collection if the configured policy calls for
// one: always under the stress policy, or once bytesAllocated exceeds
// nextGC under the threshold policy.
func (c *Collector) MaybeCollect(roots RootMarker) {
	if c.stress || c.bytesAllocated > c.nextGC {
		c.Collect(roots)
	}
}

// Collect runs one full mark-sweep cycle unconditionally.
func (c *Collector) Collect(roots RootMarker) {
	before := c.bytesAllocated
	if c.logGC {
		c.logger.Debugf("gc begin, bytesAllocated=%d", before)
	}

	roots.MarkRoots(c)
	c.traceReferences()
	if c.strings != nil {
		c.strings.RemoveWhite(func(s *object.String) bool { return s.IsMarked() })
	}
	swept := c.sweep()

	c.nextGC = c.bytesAllocated * c.growFactor
	c.collections++

	if c.logGC {
		c.logger.Debugf("gc end, collected %d bytes (%d -> %d), next at %d",
			before-c.bytesAllocated, before, c.bytesAllocated, c.nextGC)
	}
	if c.onCollect != nil {
		c.onCollect(Stats{
			BytesBefore: before,
			BytesAfter:  c.bytesAllocated,
			NextGC:      c.nextGC,
			Collections: c.collections,
			Swept:       swept,
		})
	}
}

func (c *Collector) traceReferences() {
	for len(c.gray) > 0 {
		n := len(c.gray) - 1
		o := c.gray[n]
		c.gray = c.gray[:n]
		c.blacken(o)
	}
}

func (c *Collector) sweep() int {
	var prev object.Object
	obj := c.head
	swept := 0
	for obj != nil {
		if obj.IsMarked() {
			obj.Unmark()
			prev = obj
			obj = obj.Next()
			continue
		}
		unreached := obj
		obj = obj.Next()
		if prev != nil {
			prev.SetNext(obj)
		} else {
			c.head = obj
		}
		if c.bytesAllocated >= unreached.ByteSize() {
			c.bytesAllocated -= unreached.ByteSize()
		} else {
			c.bytesAllocated = 0
		}
		swept++
		if c.logGC {
			c.logger.Debugf("free %s", unreached.Kind())
		}
	}
	return swept
}
