// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"github.com/loxvm/loxvm/pkg/lox/opcode"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

type precedence uint8

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

var rules map[TokenType]parseRule

func init() {
	rules = map[TokenType]parseRule{
		TokenLeftParen:    {prefix: (*parser).grouping, infix: (*parser).call, prec: precCall},
		TokenDot:          {infix: (*parser).dot, prec: precCall},
		TokenMinus:        {prefix: (*parser).unary, infix: (*parser).binary, prec: precTerm},
		TokenPlus:         {infix: (*parser).binary, prec: precTerm},
		TokenSlash:        {infix: (*parser).binary, prec: precFactor},
		TokenStar:         {infix: (*parser).binary, prec: precFactor},
		TokenBang:         {prefix: (*parser).unary},
		TokenBangEqual:    {infix: (*parser).binary, prec: precEquality},
		TokenEqualEqual:   {infix: (*parser).binary, prec: precEquality},
		TokenGreater:      {infix: (*parser).binary, prec: precComparison},
		TokenGreaterEqual: {infix: (*parser).binary, prec: precComparison},
		TokenLess:         {infix: (*parser).binary, prec: precComparison},
		TokenLessEqual:    {infix: (*parser).binary, prec: precComparison},
		TokenIdentifier:   {prefix: (*parser).variable},
		TokenString:       {prefix: (*parser).stringLiteral},
		TokenNumber:       {prefix: (*parser).number},
		TokenAnd:          {infix: (*parser).and_, prec: precAnd},
		TokenOr:           {infix: (*parser).or_, prec: precOr},
		TokenFalse:        {prefix: (*parser).literal},
		TokenNil:          {prefix: (*parser).literal},
		TokenTrue:         {prefix: (*parser).literal},
		TokenSuper:        {prefix: (*parser).super_},
		TokenThis:         {prefix: (*parser).this_},
	}
}

func (p *parser) getRule(t TokenType) parseRule { return rules[t] }

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := p.getRule(p.previous.Type).prefix
	if prefix == nil {
		p.errorMsg("Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= p.getRule(p.current.Type).prec {
		p.advance()
		infix := p.getRule(p.previous.Type).infix
		infix(p, canAssign)
	}

	if canAssign && p.matchTok(TokenEqual) {
		p.errorMsg("Invalid assignment target.")
	}
}

func (p *parser) number(_ bool) {
	p.emitConstant(value.NumberValue(parseNumber(p.previous.Text)))
}

func (p *parser) stringLiteral(_ bool) {
	p.emitConstant(objValue(p.alloc.InternString(p.previous.Text)))
}

func (p *parser) literal(_ bool) {
	switch p.previous.Type {
	case TokenFalse:
		p.emitOp(opcode.False)
	case TokenNil:
		p.emitOp(opcode.Nil)
	case TokenTrue:
		p.emitOp(opcode.True)
	}
}

func (p *parser) grouping(_ bool) {
	p.expression()
	p.consume(TokenRightParen, "Expect ')' after expression.")
}

func (p *parser) unary(_ bool) {
	opType := p.previous.Type
	p.parsePrecedence(precUnary)
	switch opType {
	case TokenBang:
		p.emitOp(opcode.Not)
	case TokenMinus:
		p.emitOp(opcode.Negate)
	}
}

func (p *parser) binary(_ bool) {
	opType := p.previous.Type
	rule := p.getRule(opType)
	p.parsePrecedence(rule.prec + 1)

	switch opType {
	case TokenBangEqual:
		p.emitOp(opcode.Equal)
		p.emitOp(opcode.Not)
	case TokenEqualEqual:
		p.emitOp(opcode.Equal)
	case TokenGreater:
		p.emitOp(opcode.Greater)
	case TokenGreaterEqual:
		p.emitOp(opcode.Less)
		p.emitOp(opcode.Not)
	case TokenLess:
		p.emitOp(opcode.Less)
	case TokenLessEqual:
		p.emitOp(opcode.Greater)
		p.emitOp(opcode.Not)
	case TokenPlus:
		p.emitOp(opcode.Add)
	case TokenMinus:
		p.emitOp(opcode.Subtract)
	case TokenStar:
		p.emitOp(opcode.Multiply)
	case TokenSlash:
		p.emitOp(opcode.Divide)
	}
}

func (p *parser) and_(_ bool) {
	endJump := p.emitJump(opcode.JumpIfFalse)
	p.emitOp(opcode.Pop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *parser) or_(_ bool) {
	elseJump := p.emitJump(opcode.JumpIfFalse)
	endJump := p.emitJump(opcode.Jump)
	p.patchJump(elseJump)
	p.emitOp(opcode.Pop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

func (p *parser) this_(_ bool) {
	if p.class == nil {
		p.errorMsg("Can't use 'this' outside of a class.")
		return
	}
	p.variable(false)
}

func (p *parser) super_(_ bool) {
	if p.class == nil {
		p.errorMsg("Can't use 'super' outside of a class.")
	} else if !p.class.hasSuperclass {
		p.errorMsg("Can't use 'super' in a class with no superclass.")
	}
	p.consume(TokenDot, "Expect '.' after 'super'.")
	p.consume(TokenIdentifier, "Expect superclass method name.")
	name := p.identifierConstant(p.previous)

	p.namedVariable(syntheticToken("this"), false)
	if p.matchTok(TokenLeftParen) {
		argCount := p.argumentList()
		p.namedVariable(syntheticToken("super"), false)
		p.emitOpByte(opcode.SuperInvoke, name)
		p.emitByte(argCount)
	} else {
		p.namedVariable(syntheticToken("super"), false)
		p.emitOpByte(opcode.GetSuper, name)
	}
}

func syntheticToken(text string) Token { return Token{Type: TokenIdentifier, Text: text} }

func (p *parser) call(_ bool) {
	argCount := p.argumentList()
	p.emitOpByte(opcode.Call, argCount)
}

func (p *parser) dot(canAssign bool) {
	p.consume(TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous)

	switch {
	case canAssign && p.matchTok(TokenEqual):
		p.expression()
		p.emitOpByte(opcode.SetProperty, name)
	case p.matchTok(TokenLeftParen):
		argCount := p.argumentList()
		p.emitOpByte(opcode.Invoke, name)
		p.emitByte(argCount)
	default:
		p.emitOpByte(opcode.GetProperty, name)
	}
}

func (p *parser) argumentList() byte {
	var count int
	if !p.check(TokenRightParen) {
		for {
			p.expression()
			if count == 255 {
				p.errorMsg("Can't have more than 255 arguments.")
			}
			count++
			if !p.matchTok(TokenComma) {
				break
			}
		}
	}
	p.consume(TokenRightParen, "Expect ')' after arguments.")
	return byte(count)
}
