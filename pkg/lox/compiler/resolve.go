// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "github.com/loxvm/loxvm/pkg/lox/opcode"

const maxLocals = 256

// identifierConstant adds name's text as an interned-string constant,
// used for every global-variable reference and every property/method
// name (they're all looked up by name at runtime, unlike locals and
// upvalues which resolve to a slot at compile time).
func (p *parser) identifierConstant(name Token) byte {
	return p.makeConstant(objValue(p.alloc.InternString(name.Text)))
}

func identifiersEqual(a, b Token) bool { return a.Text == b.Text }

func (p *parser) addLocal(name Token) {
	if len(p.fn.locals) >= maxLocals {
		p.errorMsg("Too many local variables in function.")
		return
	}
	p.fn.locals = append(p.fn.locals, local{name: name, depth: -1})
}

// declareVariable registers the variable named by p.previous as a new
// local if the current scope isn't global, rejecting a redeclaration
// within the same block.
func (p *parser) declareVariable() {
	if p.fn.scopeDepth == 0 {
		return
	}
	name := p.previous
	for i := len(p.fn.locals) - 1; i >= 0; i-- {
		l := p.fn.locals[i]
		if l.depth != -1 && l.depth < p.fn.scopeDepth {
			break
		}
		if identifiersEqual(name, l.name) {
			p.errorMsg("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) parseVariable(errMsg string) byte {
	p.consume(TokenIdentifier, errMsg)
	p.declareVariable()
	if p.fn.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous)
}

func (p *parser) markInitialized() {
	if p.fn.scopeDepth == 0 {
		return
	}
	p.fn.locals[len(p.fn.locals)-1].depth = p.fn.scopeDepth
}

func (p *parser) defineVariable(global byte) {
	if p.fn.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(opcode.DefineGlobal, global)
}

func (p *parser) resolveLocal(fc *funcCompiler, name Token) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if identifiersEqual(name, fc.locals[i].name) {
			if fc.locals[i].depth == -1 {
				p.errorMsg("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (p *parser) addUpvalue(fc *funcCompiler, index uint8, isLocal bool) int {
	for i, u := range fc.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(fc.upvalues) >= maxLocals {
		p.errorMsg("Too many closure variables in function.")
		return 0
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fc.function.UpvalueCount = len(fc.upvalues)
	return len(fc.upvalues) - 1
}

// resolveUpvalue walks the enclosing-compiler chain looking for name
// as a local of some ancestor function, threading an upvalue through
// every intermediate function so the whole chain can see it.
func (p *parser) resolveUpvalue(fc *funcCompiler, name Token) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := p.resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(fc, uint8(local), true)
	}
	if up := p.resolveUpvalue(fc.enclosing, name); up != -1 {
		return p.addUpvalue(fc, uint8(up), false)
	}
	return -1
}

func (p *parser) namedVariable(name Token, canAssign bool) {
	var getOp, setOp opcode.Code
	arg := p.resolveLocal(p.fn, name)
	if arg != -1 {
		getOp, setOp = opcode.GetLocal, opcode.SetLocal
	} else if arg = p.resolveUpvalue(p.fn, name); arg != -1 {
		getOp, setOp = opcode.GetUpvalue, opcode.SetUpvalue
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = opcode.GetGlobal, opcode.SetGlobal
	}

	if canAssign && p.matchTok(TokenEqual) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}
