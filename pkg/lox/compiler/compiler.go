// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler is the single-pass, Pratt-parsing front end: it
// turns Lox source directly into a tree of compiled object.Functions,
// with no intermediate AST — scan a token, parse it with precedence,
// emit bytecode immediately.
package compiler

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/opcode"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// Allocator is the narrow boundary the compiler needs into the VM's
// allocation and GC-registration machinery, so this package never
// imports pkg/lox/vm (which imports compiler).
type Allocator interface {
	InternString(chars string) *object.String
	NewFunction() *object.Function
	Push(value.Value)
	Pop() value.Value
	// MaybeCollect registers roots as the active compiler-roots source
	// for the remainder of compilation and runs one GC-pressure check
	// immediately, mirroring markCompilerRoots cooperating with the
	// collector while the front end itself is still allocating.
	MaybeCollect(roots GCRootHook)
}

// GCRootHook is implemented by *parser: during a collection triggered
// mid-compile, every not-yet-finished function up the enclosing chain
// must be marked, since none of them are reachable from the VM stack
// yet.
type GCRootHook interface {
	MarkCompilerRoots(mark func(object.Object))
}

type functionType uint8

const (
	typeFunction functionType = iota
	typeInitializer
	typeMethod
	typeScript
)

type local struct {
	name       Token
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// funcCompiler tracks the local-variable and upvalue state for one
// function body being compiled; the chain of enclosing compilers
// mirrors the lexical nesting of fun/method declarations.
type funcCompiler struct {
	enclosing *funcCompiler
	function  *object.Function
	fnType    functionType

	locals     []local
	scopeDepth int
	upvalues   []upvalueRef
}

type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

type parser struct {
	scanner *scanner
	alloc   Allocator

	current  Token
	previous Token

	hadError  bool
	panicMode bool

	fn    *funcCompiler
	class *classCompiler
}

// MarkCompilerRoots implements GCRootHook.
func (p *parser) MarkCompilerRoots(mark func(object.Object)) {
	for c := p.fn; c != nil; c = c.enclosing {
		mark(c.function)
	}
}

// Compile parses the entirety of source as a Lox program and returns
// the implicit top-level script function, ready to be wrapped in a
// Closure and called. On any parse error it returns a non-nil error;
// each diagnostic is written to os.Stderr as it is found and is not
// carried in the returned error.
func Compile(source string, alloc Allocator) (*object.Function, error) {
	p := &parser{scanner: newScanner(source), alloc: alloc}
	alloc.MaybeCollect(p)

	p.fn = newFuncCompiler(nil, typeScript, alloc)

	p.advance()
	for !p.matchTok(TokenEOF) {
		p.declaration()
	}

	fn := p.endCompiler()
	if p.hadError {
		return nil, errors.New("compile error")
	}
	return fn, nil
}

func newFuncCompiler(enclosing *funcCompiler, fnType functionType, alloc Allocator) *funcCompiler {
	fc := &funcCompiler{
		enclosing: enclosing,
		function:  alloc.NewFunction(),
		fnType:    fnType,
	}
	// Slot 0 is reserved: "this" for methods/initializers, otherwise an
	// unnamed slot holding the function/closure being called.
	name := ""
	if fnType == typeMethod || fnType == typeInitializer {
		name = "this"
	}
	fc.locals = append(fc.locals, local{name: Token{Text: name}, depth: 0})
	return fc
}

// --- token stream -----------------------------------------------------

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.next()
		if p.current.Type != TokenError {
			break
		}
		p.errorAtCurrent(p.current.Text)
	}
}

func (p *parser) consume(t TokenType, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) check(t TokenType) bool { return p.current.Type == t }

func (p *parser) matchTok(t TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) errorMsg(msg string)       { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	where := ""
	switch tok.Type {
	case TokenEOF:
		where = " at end"
	case TokenError:
	default:
		where = fmt.Sprintf(" at '%s'", tok.Text)
	}
	fmt.Fprintf(os.Stderr, "[line %d] Error%s: %s\n", tok.Line, where, msg)
}

// --- emit helpers -------------------------------------------------------

func (p *parser) emitByte(b byte) {
	p.fn.function.Chunk.Write(b, p.previous.Line)
}

func (p *parser) emitOp(op opcode.Code) { p.emitByte(byte(op)) }

func (p *parser) emitBytes(a, b byte) {
	p.emitByte(a)
	p.emitByte(b)
}

func (p *parser) emitOpByte(op opcode.Code, b byte) {
	p.emitByte(byte(op))
	p.emitByte(b)
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(opcode.Loop)
	offset := p.fn.function.Chunk.Len() - loopStart + 2
	if offset > 0xffff {
		p.errorMsg("Loop body too large.")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset & 0xff))
}

func (p *parser) emitJump(op opcode.Code) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.fn.function.Chunk.Len() - 2
}

func (p *parser) patchJump(offset int) {
	jump := p.fn.function.Chunk.Len() - offset - 2
	if jump > 0xffff {
		p.errorMsg("Too much code to jump over.")
	}
	p.fn.function.Chunk.Code[offset] = byte(jump >> 8)
	p.fn.function.Chunk.Code[offset+1] = byte(jump & 0xff)
}

func (p *parser) emitReturn() {
	if p.fn.fnType == typeInitializer {
		p.emitOpByte(opcode.GetLocal, 0)
	} else {
		p.emitOp(opcode.Nil)
	}
	p.emitOp(opcode.Return)
}

func (p *parser) makeConstant(v value.Value) byte {
	idx := p.fn.function.Chunk.AddConstant(v)
	if idx > 0xff {
		p.errorMsg("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *parser) emitConstant(v value.Value) {
	p.emitOpByte(opcode.Constant, p.makeConstant(v))
}

func (p *parser) endCompiler() *object.Function {
	p.emitReturn()
	fn := p.fn.function
	p.fn = p.fn.enclosing
	return fn
}

func (p *parser) beginScope() { p.fn.scopeDepth++ }

func (p *parser) endScope() {
	p.fn.scopeDepth--
	for len(p.fn.locals) > 0 && p.fn.locals[len(p.fn.locals)-1].depth > p.fn.scopeDepth {
		if p.fn.locals[len(p.fn.locals)-1].isCaptured {
			p.emitOp(opcode.CloseUpvalue)
		} else {
			p.emitOp(opcode.Pop)
		}
		p.fn.locals = p.fn.locals[:len(p.fn.locals)-1]
	}
}

func parseNumber(text string) float64 {
	n, _ := strconv.ParseFloat(text, 64)
	return n
}

func objValue(s *object.String) value.Value { return value.ObjValue(s) }
