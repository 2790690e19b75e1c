// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/opcode"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// run is the fetch/decode/dispatch loop. frame is cached across
// iterations and only re-read from v.frames after an instruction that
// can push or pop a CallFrame (CALL, INVOKE, SUPER_INVOKE, RETURN).
func (v *VM) run() error {
	frame := &v.frames[v.frameCount-1]

	for {
		if v.tracing {
			v.traceInstruction(frame)
		}

		instruction := opcode.Code(frame.readByte())
		switch instruction {
		case opcode.Constant:
			v.push(frame.readConstant())

		case opcode.Nil:
			v.push(value.NilValue())
		case opcode.True:
			v.push(value.BoolValue(true))
		case opcode.False:
			v.push(value.BoolValue(false))

		case opcode.Pop:
			v.pop()

		case opcode.GetLocal:
			slot := int(frame.readByte())
			v.push(v.stack[frame.SlotsBase+slot])
		case opcode.SetLocal:
			slot := int(frame.readByte())
			v.stack[frame.SlotsBase+slot] = v.peek(0)

		case opcode.GetGlobal:
			name := frame.readString()
			val, ok := v.globals.Get(name)
			if !ok {
				return v.runtimeError(ErrUndefinedVariable, "Undefined variable '%s'.", name.Chars)
			}
			v.push(val)
		case opcode.DefineGlobal:
			name := frame.readString()
			v.globals.Set(name, v.peek(0))
			v.pop()
		case opcode.SetGlobal:
			name := frame.readString()
			if v.globals.Set(name, v.peek(0)) {
				v.globals.Delete(name)
				return v.runtimeError(ErrUndefinedVariable, "Undefined variable '%s'.", name.Chars)
			}

		case opcode.GetUpvalue:
			slot := int(frame.readByte())
			v.push(frame.Closure.Upvalues[slot].Get())
		case opcode.SetUpvalue:
			slot := int(frame.readByte())
			frame.Closure.Upvalues[slot].Set(v.peek(0))

		case opcode.GetProperty:
			instance, ok := v.peek(0).AsObj().(*object.Instance)
			if !ok {
				return v.runtimeError(ErrType, "Only instances have properties.")
			}
			name := frame.readString()
			if field, ok := instance.Fields.Get(name); ok {
				v.pop()
				v.push(field)
				break
			}
			if err := v.bindMethod(instance.Class, name); err != nil {
				return err
			}
		case opcode.SetProperty:
			instance, ok := v.peek(1).AsObj().(*object.Instance)
			if !ok {
				return v.runtimeError(ErrType, "Only instances have fields.")
			}
			name := frame.readString()
			instance.Fields.Set(name, v.peek(0))
			val := v.pop()
			v.pop()
			v.push(val)

		case opcode.GetSuper:
			name := frame.readString()
			superclass := v.pop().AsObj().(*object.Class)
			if err := v.bindMethod(superclass, name); err != nil {
				return err
			}

		case opcode.Equal:
			b := v.pop()
			a := v.pop()
			v.push(value.BoolValue(value.Equal(a, b)))
		case opcode.Greater:
			if err := v.numericCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case opcode.Less:
			if err := v.numericCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case opcode.Add:
			if err := v.add(); err != nil {
				return err
			}
		case opcode.Subtract:
			if err := v.numericBinary(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case opcode.Multiply:
			if err := v.numericBinary(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case opcode.Divide:
			if err := v.numericBinary(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case opcode.Not:
			v.push(value.BoolValue(v.pop().Falsey()))
		case opcode.Negate:
			if !v.peek(0).IsNumber() {
				return v.runtimeError(ErrType, "Operand must be a number.")
			}
			v.push(value.NumberValue(-v.pop().AsNumber()))

		case opcode.Print:
			v.printf("%s\n", v.pop().String())

		case opcode.Jump:
			offset := frame.readShort()
			frame.IP += int(offset)
		case opcode.JumpIfFalse:
			offset := frame.readShort()
			if v.peek(0).Falsey() {
				frame.IP += int(offset)
			}
		case opcode.Loop:
			offset := frame.readShort()
			frame.IP -= int(offset)

		case opcode.Call:
			argCount := int(frame.readByte())
			if err := v.callValue(v.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &v.frames[v.frameCount-1]

		case opcode.Invoke:
			method := frame.readString()
			argCount := int(frame.readByte())
			if err := v.invoke(method, argCount); err != nil {
				return err
			}
			frame = &v.frames[v.frameCount-1]

		case opcode.SuperInvoke:
			method := frame.readString()
			argCount := int(frame.readByte())
			superclass := v.pop().AsObj().(*object.Class)
			if err := v.invokeFromClass(superclass, method, argCount); err != nil {
				return err
			}
			frame = &v.frames[v.frameCount-1]

		case opcode.Closure:
			fn := frame.readConstant().AsObj().(*object.Function)
			closure := v.newClosure(fn)
			v.push(value.ObjValue(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := frame.readByte()
				index := int(frame.readByte())
				if isLocal == 1 {
					closure.Upvalues[i] = v.captureUpvalue(&v.stack[frame.SlotsBase+index])
				} else {
					closure.Upvalues[i] = frame.Closure.Upvalues[index]
				}
			}

		case opcode.CloseUpvalue:
			v.closeUpvalues(&v.stack[v.stackTop-1])
			v.pop()

		case opcode.Return:
			result := v.pop()
			v.closeUpvalues(&v.stack[frame.SlotsBase])
			v.frameCount--
			if v.frameCount == 0 {
				v.pop()
				return nil
			}
			v.stackTop = frame.SlotsBase
			v.push(result)
			frame = &v.frames[v.frameCount-1]

		case opcode.Class:
			v.push(value.ObjValue(v.newClass(frame.readString())))

		case opcode.Inherit:
			superclass, ok := v.peek(1).AsObj().(*object.Class)
			if !ok {
				return v.runtimeError(ErrType, "Superclass must be a class.")
			}
			subclass := v.peek(0).AsObj().(*object.Class)
			superclass.Methods.AddAll(subclass.Methods)
			v.pop()

		case opcode.Method:
			v.defineMethod(frame.readString())

		case opcode.Throw:
			instance, ok := v.pop().AsObj().(*object.Instance)
			if !ok {
				return v.runtimeError(ErrType, "Can only throw an instance.")
			}
			return v.throw(instance)

		default:
			return v.runtimeError(ErrType, "Unknown opcode %d.", instruction)
		}
	}
}

func (v *VM) numericBinary(op func(a, b float64) float64) error {
	if !v.peek(0).IsNumber() || !v.peek(1).IsNumber() {
		return v.runtimeError(ErrType, "Operands must be numbers.")
	}
	b := v.pop().AsNumber()
	a := v.pop().AsNumber()
	v.push(value.NumberValue(op(a, b)))
	return nil
}

func (v *VM) numericCompare(op func(a, b float64) bool) error {
	if !v.peek(0).IsNumber() || !v.peek(1).IsNumber() {
		return v.runtimeError(ErrType, "Operands must be numbers.")
	}
	b := v.pop().AsNumber()
	a := v.pop().AsNumber()
	v.push(value.BoolValue(op(a, b)))
	return nil
}

// add implements OP_ADD's dual behavior: number+number arithmetic or
// string+string concatenation, chosen by the operands' runtime kinds
// rather than any static type.
func (v *VM) add() error {
	if v.peek(0).IsObjKind(uint8(object.KindString)) && v.peek(1).IsObjKind(uint8(object.KindString)) {
		v.concatenate()
		return nil
	}
	if v.peek(0).IsNumber() && v.peek(1).IsNumber() {
		b := v.pop().AsNumber()
		a := v.pop().AsNumber()
		v.push(value.NumberValue(a + b))
		return nil
	}
	return v.runtimeError(ErrType, "Operands must be two numbers or two strings.")
}
