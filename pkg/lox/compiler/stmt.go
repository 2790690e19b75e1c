// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"github.com/loxvm/loxvm/pkg/lox/opcode"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

func (p *parser) declaration() {
	switch {
	case p.matchTok(TokenClass):
		p.classDeclaration()
	case p.matchTok(TokenFun):
		p.funDeclaration()
	case p.matchTok(TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) synchronize() {
	p.panicMode = false
	for p.current.Type != TokenEOF {
		if p.previous.Type == TokenSemicolon {
			return
		}
		switch p.current.Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn, TokenThrow:
			return
		}
		p.advance()
	}
}

func (p *parser) statement() {
	switch {
	case p.matchTok(TokenPrint):
		p.printStatement()
	case p.matchTok(TokenIf):
		p.ifStatement()
	case p.matchTok(TokenReturn):
		p.returnStatement()
	case p.matchTok(TokenThrow):
		p.throwStatement()
	case p.matchTok(TokenWhile):
		p.whileStatement()
	case p.matchTok(TokenFor):
		p.forStatement()
	case p.matchTok(TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) block() {
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		p.declaration()
	}
	p.consume(TokenRightBrace, "Expect '}' after block.")
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after value.")
	p.emitOp(opcode.Print)
}

func (p *parser) throwStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after thrown value.")
	p.emitOp(opcode.Throw)
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(opcode.Pop)
}

func (p *parser) ifStatement() {
	p.consume(TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(opcode.JumpIfFalse)
	p.emitOp(opcode.Pop)
	p.statement()

	elseJump := p.emitJump(opcode.Jump)
	p.patchJump(thenJump)
	p.emitOp(opcode.Pop)

	if p.matchTok(TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := p.fn.function.Chunk.Len()
	p.consume(TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(opcode.JumpIfFalse)
	p.emitOp(opcode.Pop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(opcode.Pop)
}

func (p *parser) forStatement() {
	p.beginScope()
	p.consume(TokenLeftParen, "Expect '(' after 'for'.")

	switch {
	case p.matchTok(TokenSemicolon):
		// no initializer
	case p.matchTok(TokenVar):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := p.fn.function.Chunk.Len()
	exitJump := -1
	if !p.matchTok(TokenSemicolon) {
		p.expression()
		p.consume(TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(opcode.JumpIfFalse)
		p.emitOp(opcode.Pop)
	}

	if !p.matchTok(TokenRightParen) {
		bodyJump := p.emitJump(opcode.Jump)
		incrementStart := p.fn.function.Chunk.Len()
		p.expression()
		p.emitOp(opcode.Pop)
		p.consume(TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(opcode.Pop)
	}

	p.endScope()
}

func (p *parser) returnStatement() {
	if p.fn.fnType == typeScript {
		p.errorMsg("Can't return from top-level code.")
	}
	if p.matchTok(TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.fn.fnType == typeInitializer {
		p.errorMsg("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(opcode.Return)
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.matchTok(TokenEqual) {
		p.expression()
	} else {
		p.emitOp(opcode.Nil)
	}
	p.consume(TokenSemicolon, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(typeFunction)
	p.defineVariable(global)
}

// function compiles one function body (shared by top-level fun
// declarations and methods) into its own funcCompiler, then emits
// OP_CLOSURE in the enclosing function with one (isLocal, index) byte
// pair per captured upvalue trailing the instruction.
func (p *parser) function(fnType functionType) {
	p.fn = newFuncCompilerNamed(p.fn, fnType, p.alloc, p.previous.Text)
	p.beginScope()

	p.consume(TokenLeftParen, "Expect '(' after function name.")
	if !p.check(TokenRightParen) {
		for {
			p.fn.function.Arity++
			if p.fn.function.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.matchTok(TokenComma) {
				break
			}
		}
	}
	p.consume(TokenRightParen, "Expect ')' after parameters.")
	p.consume(TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	fc := p.fn
	fn := p.endCompiler()
	p.emitOpByte(opcode.Closure, p.makeConstant(value.ObjValue(fn)))
	for _, u := range fc.upvalues {
		if u.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(u.index)
	}
}

func newFuncCompilerNamed(enclosing *funcCompiler, fnType functionType, alloc Allocator, name string) *funcCompiler {
	fc := newFuncCompiler(enclosing, fnType, alloc)
	if fnType != typeScript {
		// fc is not on the parser's compiler chain yet, so keep its
		// function on the stack while interning the name can collect.
		alloc.Push(value.ObjValue(fc.function))
		fc.function.Name = alloc.InternString(name)
		alloc.Pop()
	}
	return fc
}

func (p *parser) method() {
	p.consume(TokenIdentifier, "Expect method name.")
	name := p.identifierConstant(p.previous)

	fnType := typeMethod
	if p.previous.Text == "init" {
		fnType = typeInitializer
	}
	p.function(fnType)
	p.emitOpByte(opcode.Method, name)
}

func (p *parser) classDeclaration() {
	p.consume(TokenIdentifier, "Expect class name.")
	className := p.previous
	nameConstant := p.identifierConstant(p.previous)
	p.declareVariable()

	p.emitOpByte(opcode.Class, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.class}
	p.class = cc

	if p.matchTok(TokenLess) {
		p.consume(TokenIdentifier, "Expect superclass name.")
		p.variable(false)
		if identifiersEqual(className, p.previous) {
			p.errorMsg("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal(syntheticToken("super"))
		p.defineVariable(0)

		p.namedVariable(className, false)
		p.emitOp(opcode.Inherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(className, false)
	p.consume(TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(TokenRightBrace) && !p.check(TokenEOF) {
		p.method()
	}
	p.consume(TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(opcode.Pop)

	if cc.hasSuperclass {
		p.endScope()
	}
	p.class = p.class.enclosing
}
