/*
 * m6502asm - Argument-mode decoder.
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

// Package argmode decodes the operand field of an instruction line into an
// attribute bitmask and a reduced value (spec §4.F, the original's
// do_args()). It sits between the lexer and the encoder: the encoder
// never sees tokens, only an Args value.
package argmode

import (
	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/expr"
	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/token"
)

// Attr is the argattr bitmask (spec §4.F table).
type Attr uint8

const (
	Imm Attr = 1 << iota // #expr
	Num                  // an expression value is present
	X                    // ,X indexing
	Y                    // ,Y indexing
	Ind                  // (expr) indirect
	A                    // bare accumulator operand
)

// Args is the decoded operand: the attribute bits, the reduced value, and
// whether that value is still forward-referenced.
type Args struct {
	Attr    Attr
	Value   uint32
	Forward bool
}

// Decode reads the operand field following a mnemonic. It returns the
// decoded Args, whether a leading '!' requested forced absolute encoding,
// and a recoverable error on syntax violations: S for a bad index
// register, ( for an unclosed indirect, T for text after a bare A, or the
// lexer's or evaluator's own code.
func Decode(lx *lexer.Lexer) (Args, bool, *errs.Error) {
	var a Args
	forceabs := false

	tok, lerr := lx.Lex()
	if lerr != nil {
		return a, forceabs, lerr
	}
	if tok.Kind == token.EOL || tok.Kind == token.Sep {
		lx.Unlex()
		return a, forceabs, nil
	}

	if tok.Kind == token.Opr && tok.Op == '!' {
		forceabs = true
		tok, lerr = lx.Lex()
		if lerr != nil {
			return a, forceabs, lerr
		}
	}

	switch {
	case tok.Kind == token.Reg && tok.Op == 'A':
		return decodeAccumulator(lx, a, forceabs)
	case tok.Kind == token.Opr && tok.Op == '#':
		return decodeImmediate(lx, a, forceabs)
	case tok.Kind == token.Opr && tok.Op == '(':
		return decodeIndirect(lx, a, forceabs)
	default:
		lx.Unlex()
		return decodeDirect(lx, a, forceabs)
	}
}

func decodeAccumulator(lx *lexer.Lexer, a Args, forceabs bool) (Args, bool, *errs.Error) {
	a.Attr = A
	next, err := lx.Lex()
	if err != nil {
		return a, forceabs, err
	}
	if next.Kind != token.EOL && next.Kind != token.Sep {
		lx.Unlex()
		return a, forceabs, &errs.Error{Code: errs.TooMany}
	}
	lx.Unlex()
	return a, forceabs, nil
}

func decodeImmediate(lx *lexer.Lexer, a Args, forceabs bool) (Args, bool, *errs.Error) {
	r, err := expr.Eval(lx)
	if err != nil {
		return a, forceabs, err
	}
	a.Attr = Imm | Num
	a.Value = r.Value
	a.Forward = r.Forward
	return a, forceabs, nil
}

func decodeIndirect(lx *lexer.Lexer, a Args, forceabs bool) (Args, bool, *errs.Error) {
	r, err := expr.Eval(lx)
	if err != nil {
		return a, forceabs, err
	}
	a.Attr = Ind | Num
	a.Value = r.Value
	a.Forward = r.Forward

	next, err := lx.Lex()
	if err != nil {
		return a, forceabs, err
	}

	switch {
	case next.Kind == token.Sep:
		xtok, err := lx.Lex()
		if err != nil {
			return a, forceabs, err
		}
		if xtok.Kind != token.Reg || xtok.Op != 'X' {
			return a, forceabs, &errs.Error{Code: errs.Syntax}
		}
		closeTok, err := lx.Lex()
		if err != nil {
			return a, forceabs, err
		}
		if closeTok.Kind != token.Opr || closeTok.Op != ')' {
			lx.Unlex()
			return a, forceabs, &errs.Error{Code: errs.Paren}
		}
		a.Attr |= X
		return a, forceabs, nil

	case next.Kind == token.Opr && next.Op == ')':
		ytok, err := lx.Lex()
		if err != nil {
			return a, forceabs, err
		}
		if ytok.Kind != token.Sep {
			lx.Unlex()
			return a, forceabs, nil
		}
		reg, err := lx.Lex()
		if err != nil {
			return a, forceabs, err
		}
		if reg.Kind != token.Reg || reg.Op != 'Y' {
			return a, forceabs, &errs.Error{Code: errs.Syntax}
		}
		a.Attr |= Y
		return a, forceabs, nil

	default:
		lx.Unlex()
		return a, forceabs, &errs.Error{Code: errs.Paren}
	}
}

func decodeDirect(lx *lexer.Lexer, a Args, forceabs bool) (Args, bool, *errs.Error) {
	r, err := expr.Eval(lx)
	if err != nil {
		return a, forceabs, err
	}
	a.Attr = Num
	a.Value = r.Value
	a.Forward = r.Forward

	next, err := lx.Lex()
	if err != nil {
		return a, forceabs, err
	}
	if next.Kind != token.Sep {
		lx.Unlex()
		return a, forceabs, nil
	}
	reg, err := lx.Lex()
	if err != nil {
		return a, forceabs, err
	}
	switch {
	case reg.Kind == token.Reg && reg.Op == 'X':
		a.Attr |= X
	case reg.Kind == token.Reg && reg.Op == 'Y':
		a.Attr |= Y
	default:
		return a, forceabs, &errs.Error{Code: errs.Syntax}
	}
	return a, forceabs, nil
}
