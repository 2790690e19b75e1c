// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"unsafe"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// slotIndex recovers a stack pointer's index into v.stack. Go forbids
// ordering comparisons (<, >) between pointers, so open upvalues — kept
// sorted by descending stack depth — are compared by this index instead
// of by pointer arithmetic directly.
func (v *VM) slotIndex(p *value.Value) int {
	base := uintptr(unsafe.Pointer(&v.stack[0]))
	return int((uintptr(unsafe.Pointer(p)) - base) / unsafe.Sizeof(v.stack[0]))
}

// callValue dispatches a call instruction's callee by its runtime
// kind: a bound method rebinds its receiver into slot 0 and calls the
// underlying closure; a class allocates a fresh instance and, if it
// declares "init", calls that as the constructor; a closure is called
// directly; a native is invoked immediately since it has no frame.
func (v *VM) callValue(callee value.Value, argCount int) error {
	if callee.IsObjKind(uint8(object.KindBoundMethod)) {
		bound := callee.AsObj().(*object.BoundMethod)
		v.stack[v.stackTop-argCount-1] = bound.Receiver
		return v.call(bound.Method, argCount)
	}
	if callee.IsObjKind(uint8(object.KindClass)) {
		class := callee.AsObj().(*object.Class)
		instance := v.newInstance(class)
		v.stack[v.stackTop-argCount-1] = value.ObjValue(instance)
		if initializer, ok := class.Methods.Get(v.init); ok {
			return v.call(initializer.AsObj().(*object.Closure), argCount)
		}
		if argCount != 0 {
			return v.runtimeError(ErrArity, "Expected 0 arguments but got %d.", argCount)
		}
		return nil
	}
	if callee.IsObjKind(uint8(object.KindClosure)) {
		return v.call(callee.AsObj().(*object.Closure), argCount)
	}
	if callee.IsObjKind(uint8(object.KindNative)) {
		native := callee.AsObj().(*object.Native)
		args := v.stack[v.stackTop-argCount : v.stackTop]
		result, err := native.Fn(args)
		if err != nil {
			return v.runtimeError(ErrThrown, "%s", err)
		}
		v.stackTop -= argCount + 1
		v.push(result)
		return nil
	}
	return v.runtimeError(ErrType, "Can only call functions and classes.")
}

// call pushes a new CallFrame for closure, reusing the argCount+1
// stack slots the caller already set up (slot 0 is the callee or
// receiver;).
func (v *VM) call(closure *object.Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return v.runtimeError(ErrArity, "Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if v.frameCount == FramesMax {
		return v.runtimeError(ErrStackOverflow, "Stack overflow.")
	}
	frame := &v.frames[v.frameCount]
	v.frameCount++
	frame.Closure = closure
	frame.IP = 0
	frame.SlotsBase = v.stackTop - argCount - 1
	frame.HandlerCount = 0
	return nil
}

// invoke fast-paths `receiver.name(args)`: a field holding a callable
// shadows a method of the same name, exactly as a plain get-then-call
// would resolve it, so the shortcut preserves that semantics.
func (v *VM) invoke(name *object.String, argCount int) error {
	receiver := v.peek(argCount)
	instance, ok := receiver.AsObj().(*object.Instance)
	if !ok {
		return v.runtimeError(ErrType, "Only instances have methods.")
	}
	if field, ok := instance.Fields.Get(name); ok {
		v.stack[v.stackTop-argCount-1] = field
		return v.callValue(field, argCount)
	}
	return v.invokeFromClass(instance.Class, name, argCount)
}

func (v *VM) invokeFromClass(class *object.Class, name *object.String, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return v.runtimeError(ErrUndefinedProperty, "Undefined property '%s'.", name.Chars)
	}
	return v.call(method.AsObj().(*object.Closure), argCount)
}

// bindMethod produces a BoundMethod pairing the instance on top of the
// stack with class's method named name, replacing the instance with
// the bound value.
func (v *VM) bindMethod(class *object.Class, name *object.String) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return v.runtimeError(ErrUndefinedProperty, "Undefined property '%s'.", name.Chars)
	}
	bound := v.newBoundMethod(v.peek(0), method.AsObj().(*object.Closure))
	v.pop()
	v.push(value.ObjValue(bound))
	return nil
}

// captureUpvalue returns the open upvalue for local, reusing one
// already capturing the same slot if a prior closure created it
//, else creating and linking a new one
// in stack-depth order.
func (v *VM) captureUpvalue(local *value.Value) *object.Upvalue {
	localIdx := v.slotIndex(local)

	var prev *object.Upvalue
	upvalue := v.openUpvalues
	for upvalue != nil && v.slotIndex(upvalue.Location) > localIdx {
		prev = upvalue
		upvalue = upvalue.OpenNext
	}
	if upvalue != nil && v.slotIndex(upvalue.Location) == localIdx {
		return upvalue
	}

	created := v.newUpvalue(local)
	created.OpenNext = upvalue
	if prev == nil {
		v.openUpvalues = created
	} else {
		prev.OpenNext = created
	}
	return created
}

// closeUpvalues hoists every open upvalue at or above last off the
// stack and into its own closed storage, for every local going out of
// scope at once (end of block, return) rather than one at a time.
func (v *VM) closeUpvalues(last *value.Value) {
	lastIdx := v.slotIndex(last)
	for v.openUpvalues != nil && v.slotIndex(v.openUpvalues.Location) >= lastIdx {
		upvalue := v.openUpvalues
		upvalue.Close()
		v.openUpvalues = upvalue.OpenNext
	}
}

func (v *VM) defineMethod(name *object.String) {
	method := v.peek(0)
	class := v.peek(1).AsObj().(*object.Class)
	class.Methods.Set(name, method)
	v.pop()
}
