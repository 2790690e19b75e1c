// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vm implements the execution core: the fetch/decode/dispatch
// loop over a per-call-frame instruction pointer, operand stack, and
// call-frame stack, cooperating with pkg/lox/gc as the sole
// root-enumerator for the collector.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/loxvm/loxvm/pkg/lox/compiler"
	"github.com/loxvm/loxvm/pkg/lox/gc"
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// Logger is the narrow logging interface the VM uses for
// DEBUG_TRACE_EXECUTION and DEBUG_LOG_GC output. *zap.SugaredLogger
// satisfies it without this package importing zap.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}

// Result is the terminal outcome of Interpret: ok, compile error, or
// runtime error — the error return distinguishes the latter two via
// errors.As against *CompileError / *RuntimeError.
type Result uint8

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// MetricsRecorder receives a callback after every collection; wired to
// pkg/lox/telemetry by cmd/lox. Declared locally (rather than importing
// telemetry's concrete type) to keep vm ignorant of the prometheus
// client.
type MetricsRecorder interface {
	ObserveCollection(gc.Stats)
}

// NativeDef registers one host function under a name at VM startup.
type NativeDef struct {
	Name string
	Fn   object.NativeFn
}

// Config configures a VM instance — flags that would otherwise be
// build-time constants, bound from viper/cobra by cmd/lox instead of
// compiled in.
type Config struct {
	TraceExecution bool // DEBUG_TRACE_EXECUTION
	StressGC       bool // DEBUG_STRESS_GC
	LogGC          bool // DEBUG_LOG_GC
	GCGrowFactor   uintptr

	Stdout io.Writer
	Stderr io.Writer
	Logger Logger

	Metrics MetricsRecorder
	Natives []NativeDef
}

// VM is a single interpreter instance: its frame stack, operand stack,
// globals, and interned-string table. The single-threaded execution
// model means nothing prevents constructing more than one, but in
// practice a process runs exactly one at a time.
type VM struct {
	frames     [FramesMax]CallFrame
	frameCount int

	stack    [StackMax]value.Value
	stackTop int

	globals *object.Table
	strings *object.Table
	init    *object.String

	openUpvalues *object.Upvalue

	gc             *gc.Collector
	activeCompiler compilerRoots

	stdout  io.Writer
	stderr  io.Writer
	logger  Logger
	tracing bool
}

// compilerRoots is the narrow boundary from markCompilerRoots: the
// compiler-in-progress (if any) exposes its own in-flight Function(s)
// as roots while the VM is mid-compile.
type compilerRoots interface {
	MarkCompilerRoots(mark func(object.Object))
}

// New constructs a VM, interns "init" (used by constructor dispatch and
// always a GC root), registers the standard natives, and returns it
// ready for Interpret.
func New(cfg Config) *VM {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	v := &VM{
		globals: object.NewTable(),
		strings: object.NewTable(),
		stdout:  cfg.Stdout,
		stderr:  cfg.Stderr,
		logger:  logger,
		tracing: cfg.TraceExecution,
	}
	if v.stdout == nil {
		v.stdout = os.Stdout
	}
	if v.stderr == nil {
		v.stderr = os.Stderr
	}
	v.gc = gc.New(gc.Config{
		Stress:     cfg.StressGC,
		LogGC:      cfg.LogGC,
		Logger:     logger,
		GrowFactor: cfg.GCGrowFactor,
	})
	v.gc.SetInternTable(v.strings)
	if cfg.Metrics != nil {
		v.gc.OnCollect(cfg.Metrics.ObserveCollection)
	}
	v.resetStack()
	v.init = v.internString("init")

	for _, n := range cfg.Natives {
		v.defineNative(n.Name, n.Fn)
	}
	return v
}

func (v *VM) defineNative(name string, fn object.NativeFn) {
	nameObj := v.internString(name)
	v.push(value.ObjValue(nameObj))
	native := v.newNative(name, fn)
	v.push(value.ObjValue(native))
	v.globals.Set(nameObj, v.stack[v.stackTop-1])
	v.pop()
	v.pop()
}

func (v *VM) resetStack() {
	v.stackTop = 0
	v.frameCount = 0
	v.openUpvalues = nil
}

// compilerAllocator adapts the VM's own allocation helpers to
// compiler.Allocator, so the compiler's fresh strings and functions
// flow through exactly the same GC-registration and interning path as
// everything the interpreter allocates at runtime.
type compilerAllocator struct{ v *VM }

func (a compilerAllocator) InternString(chars string) *object.String { return a.v.internString(chars) }
func (a compilerAllocator) NewFunction() *object.Function             { return a.v.newFunction() }
func (a compilerAllocator) Push(val value.Value)                     { a.v.push(val) }
func (a compilerAllocator) Pop() value.Value                         { return a.v.pop() }
func (a compilerAllocator) MaybeCollect(roots compiler.GCRootHook) {
	a.v.activeCompiler = roots
	a.v.gc.MaybeCollect(a.v)
}

// Interpret compiles source and, on success, runs it to completion. It
// returns ResultOK on success; on failure the returned error is a
// *CompileError or *RuntimeError.
func (v *VM) Interpret(source string) (Result, error) {
	fn, cerr := compiler.Compile(source, compilerAllocator{v})
	v.activeCompiler = nil
	if cerr != nil {
		return ResultCompileError, &CompileError{Message: cerr.Error()}
	}

	v.push(value.ObjValue(fn))
	closure := v.newClosure(fn)
	v.pop()
	v.push(value.ObjValue(closure))
	v.call(closure, 0)

	if err := v.run(); err != nil {
		return ResultRuntimeError, err
	}
	return ResultOK, nil
}

func (v *VM) printf(format string, args ...interface{}) {
	fmt.Fprintf(v.stdout, format, args...)
}
