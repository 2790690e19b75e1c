// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/pkg/lox/vm"
)

func newTestVM() (*vm.VM, *bytes.Buffer) {
	var out bytes.Buffer
	return vm.New(vm.Config{Stdout: &out, Stderr: &out}), &out
}

func runOK(t *testing.T, source string) string {
	t.Helper()
	machine, out := newTestVM()
	result, err := machine.Interpret(source)
	require.NoError(t, err)
	require.Equal(t, vm.ResultOK, result)
	return out.String()
}

func TestArithmeticAndPrint(t *testing.T) {
	out := runOK(t, `print 1 + 2 * 3;`)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out := runOK(t, `print "foo" + "bar";`)
	assert.Equal(t, "foobar\n", out)
}

func TestGlobalAndLocalVariables(t *testing.T) {
	out := runOK(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
		print a;
	`)
	assert.Equal(t, "local\nglobal\n", out)
}

func TestClosureCapturesUpvalue(t *testing.T) {
	out := runOK(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
		counter();
	`)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestClassesMethodsAndInheritance(t *testing.T) {
	out := runOK(t, `
		class Animal {
			init(name) {
				this.name = name;
			}
			speak() {
				print this.name + " makes a sound.";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print this.name + " barks.";
			}
		}
		var d = Dog("Rex");
		d.speak();
	`)
	assert.Equal(t, "Rex makes a sound.\nRex barks.\n", out)
}

func TestForLoopAndFunctionReturn(t *testing.T) {
	out := runOK(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		for (var i = 0; i < 6; i = i + 1) {
			print fib(i);
		}
	`)
	assert.Equal(t, "0\n1\n1\n2\n3\n5\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`print nope;`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrUndefinedVariable, rerr.Kind)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`
		fun needsTwo(a, b) { return a + b; }
		needsTwo(1);
	`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrArity, rerr.Kind)
}

func TestStackOverflowFromUnboundedRecursion(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`
		fun recurse() { return recurse(); }
		recurse();
	`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrStackOverflow, rerr.Kind)
}

func TestCompileErrorDoesNotRun(t *testing.T) {
	machine, out := newTestVM()
	result, err := machine.Interpret(`print ;`)
	assert.Equal(t, vm.ResultCompileError, result)
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestMismatchedTypesForAddIsRuntimeError(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`print 1 + "two";`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrType, rerr.Kind)
}

func TestStressGCDoesNotCorruptExecution(t *testing.T) {
	var out bytes.Buffer
	machine := vm.New(vm.Config{Stdout: &out, StressGC: true})
	result, err := machine.Interpret(`
		class Box {
			init(v) { this.v = v; }
		}
		var total = 0;
		for (var i = 0; i < 50; i = i + 1) {
			var b = Box(i);
			total = total + b.v;
		}
		print total;
	`)
	require.NoError(t, err)
	assert.Equal(t, vm.ResultOK, result)
	assert.Equal(t, "1225\n", out.String())
}

func TestThrowInstanceUnwindsWithStackTrace(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`
		class Failure {}
		fun boom() { throw Failure(); }
		boom();
	`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrThrown, rerr.Kind)
	assert.Contains(t, rerr.StackTrace, "boom()")
	assert.Contains(t, rerr.StackTrace, "script")
}

func TestThrowNonInstanceIsTypeError(t *testing.T) {
	machine, _ := newTestVM()
	result, err := machine.Interpret(`throw "not an instance";`)
	assert.Equal(t, vm.ResultRuntimeError, result)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrType, rerr.Kind)
}
