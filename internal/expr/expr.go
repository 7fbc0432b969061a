/*
 * m6502asm - Expression evaluator.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package expr is the assembler's expression evaluator (spec §4.E): a
// precedence-climbing parser over seven classes, primary through log2.
// Evaluation happens on both passes; on pass 1 an operand referencing a
// symbol that is not yet VAL just returns Forward=true rather than an
// error, so pass 1 can keep assigning addresses to following lines.
package expr

import (
	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/token"
)

// Result is the outcome of evaluating an expression: the value, whether
// any operand was still forward-referenced (spec §3 "forwd" mailbox,
// owned here instead of a package global per spec §9), and whether a
// register (A/X/Y) was seen bare in primary position. argmode does not
// read Reg; it recognizes a bare accumulator operand from the leading
// token before calling Eval.
type Result struct {
	Value   uint32
	Forward bool
	Reg     byte // non-zero if the whole expression was a bare register
}

// Eval parses and evaluates one expression starting at the current lex
// position, stopping at EOL, a separator, or an unrecognized operator.
func Eval(lx *lexer.Lexer) (Result, *errs.Error) {
	return evalLog2(lx)
}

func evalLog2(lx *lexer.Lexer) (Result, *errs.Error) {
	left, err := evalLog1(lx)
	if err != nil {
		return left, err
	}
	for {
		tok, err := lx.Lex()
		if err != nil {
			return left, err
		}
		if tok.Kind != token.Opr || tok.Prec != token.Log2 {
			lx.Unlex()
			return left, nil
		}
		op := tok.Op
		right, err := evalLog1(lx)
		if err != nil {
			return left, err
		}
		left.Reg = 0
		left.Forward = left.Forward || right.Forward
		switch op {
		case token.OpOr:
			left.Value |= right.Value
		case token.OpXor:
			left.Value ^= right.Value
		}
	}
}

func evalLog1(lx *lexer.Lexer) (Result, *errs.Error) {
	left, err := evalRelat(lx)
	if err != nil {
		return left, err
	}
	for {
		tok, err := lx.Lex()
		if err != nil {
			return left, err
		}
		if tok.Kind != token.Opr || tok.Prec != token.Log1 {
			lx.Unlex()
			return left, nil
		}
		right, err := evalRelat(lx)
		if err != nil {
			return left, err
		}
		left.Reg = 0
		left.Forward = left.Forward || right.Forward
		left.Value &= right.Value
	}
}

func evalRelat(lx *lexer.Lexer) (Result, *errs.Error) {
	left, err := evalAdd(lx)
	if err != nil {
		return left, err
	}
	for {
		tok, err := lx.Lex()
		if err != nil {
			return left, err
		}
		if tok.Kind != token.Opr || tok.Prec != token.Relat {
			lx.Unlex()
			return left, nil
		}
		op := tok.Op
		right, err := evalAdd(lx)
		if err != nil {
			return left, err
		}
		left.Reg = 0
		left.Forward = left.Forward || right.Forward
		left.Value = relat(op, left.Value, right.Value)
	}
}

func relat(op byte, a, b uint32) uint32 {
	var ok bool
	switch op {
	case '<':
		ok = a < b
	case '>':
		ok = a > b
	case '=':
		ok = a == b
	case token.OpEq:
		ok = a == b
	case token.OpNe:
		ok = a != b
	case token.OpLt:
		ok = a < b
	case token.OpLe:
		ok = a <= b
	case token.OpGt:
		ok = a > b
	case token.OpGe:
		ok = a >= b
	}
	if ok {
		return 0xffffffff
	}
	return 0
}

func evalAdd(lx *lexer.Lexer) (Result, *errs.Error) {
	left, err := evalMult(lx)
	if err != nil {
		return left, err
	}
	for {
		tok, err := lx.Lex()
		if err != nil {
			return left, err
		}
		if tok.Kind != token.Opr || tok.Prec != token.Add {
			lx.Unlex()
			return left, nil
		}
		op := tok.Op
		right, err := evalMult(lx)
		if err != nil {
			return left, err
		}
		left.Reg = 0
		left.Forward = left.Forward || right.Forward
		if op == '+' {
			left.Value += right.Value
		} else {
			left.Value -= right.Value
		}
	}
}

func evalMult(lx *lexer.Lexer) (Result, *errs.Error) {
	left, err := evalUnary(lx)
	if err != nil {
		return left, err
	}
	for {
		tok, err := lx.Lex()
		if err != nil {
			return left, err
		}
		if tok.Kind != token.Opr || tok.Prec != token.Mult {
			lx.Unlex()
			return left, nil
		}
		op := tok.Op
		right, err := evalUnary(lx)
		if err != nil {
			return left, err
		}
		left.Reg = 0
		left.Forward = left.Forward || right.Forward
		switch op {
		case '*':
			left.Value *= right.Value
		case '/':
			if right.Value == 0 {
				return left, &errs.Error{Code: errs.Value}
			}
			left.Value /= right.Value
		case token.OpMod:
			if right.Value == 0 {
				return left, &errs.Error{Code: errs.Value}
			}
			left.Value %= right.Value
		case token.OpShl:
			left.Value <<= right.Value
		case token.OpShr:
			left.Value >>= right.Value
		}
	}
}

func evalUnary(lx *lexer.Lexer) (Result, *errs.Error) {
	tok, err := lx.Lex()
	if err != nil {
		return Result{}, err
	}
	if tok.Kind == token.Opr {
		switch tok.Op {
		case '-':
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value = uint32(-int32(r.Value))
			r.Reg = 0
			return r, nil
		case token.OpNot:
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value = ^r.Value
			r.Reg = 0
			return r, nil
		case token.OpHigh:
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value = (r.Value >> 8) & 0xff
			r.Reg = 0
			return r, nil
		case token.OpLow:
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value &= 0xff
			r.Reg = 0
			return r, nil
		case '<':
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value &= 0xff
			r.Reg = 0
			return r, nil
		case '>':
			r, err := evalUnary(lx)
			if err != nil {
				return r, err
			}
			r.Value = (r.Value >> 8) & 0xff
			r.Reg = 0
			return r, nil
		}
	}
	lx.Unlex()
	return evalPrimary(lx)
}

func evalPrimary(lx *lexer.Lexer) (Result, *errs.Error) {
	tok, err := lx.Lex()
	if err != nil {
		return Result{}, err
	}
	switch {
	case tok.Kind == token.Val:
		return Result{Value: tok.Value, Forward: tok.Forward}, nil
	case tok.Kind == token.Reg:
		return Result{Reg: tok.Op}, nil
	case tok.Kind == token.Opr && tok.Op == '(':
		r, err := Eval(lx)
		if err != nil {
			return r, err
		}
		closeTok, err := lx.Lex()
		if err != nil {
			return r, err
		}
		if closeTok.Kind != token.Opr || closeTok.Op != ')' {
			lx.Unlex()
			return r, &errs.Error{Code: errs.Paren}
		}
		r.Reg = 0
		return r, nil
	default:
		lx.Unlex()
		return Result{}, &errs.Error{Code: errs.Expr}
	}
}
