/*
 * m6502asm - Lexical token types.
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

// Package token defines the lexical token produced by the assembler's
// lexer and consumed by the expression evaluator and argument decoder.
package token

// Kind is the TYPE field of a token: VAL, REG, OPR, SEP, EOL, STR.
type Kind int

const (
	EOL Kind = iota
	Sep
	Val
	Reg
	Opr
	Str
)

// Arity of an operator.
type Arity int

const (
	Nullary Arity = iota
	Unary
	Binary
)

// Prec is the precedence class of an operator token. Lower binds tighter,
// following the climb order primary -> unary -> mult -> add -> relat ->
// log1 -> log2.
type Prec int

const (
	NoPrec Prec = iota
	Uop1 // unary, no precedence distinction (placeholder, unused operand)
	Uop2 // unary minus, NOT
	Uop3 // HIGH, LOW
	Mult // * / MOD SHL SHR
	Add  // + -
	Relat
	Log1 // AND
	Log2 // OR XOR
)

// Token is the single shared lexical token record. attr is split here into
// explicit fields rather than a packed bitmask: Kind carries TYPE, Prec+Arity carry operator classification, Reg
// carries the register letter for REG tokens.
type Token struct {
	Kind    Kind
	Value   uint32
	Text    string
	Prec    Prec
	Arity   Arity
	Reg     byte // 'A', 'X', or 'Y' when Kind == Reg
	Op      byte // canonical operator code ('+', AND, EQ, HIGH, ...)
	Forward bool // Value came from a symbol still marked FORWD
}

// Word-named operator codes that don't correspond to an ASCII punctuation
// character. Punctuation operators use their own byte ('+', '-', etc.) as
// Op so a single switch can dispatch on both uniformly.
const (
	OpAnd byte = 0x80 + iota
	OpOr
	OpXor
	OpNot
	OpShl
	OpShr
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpHigh
	OpLow
)
