/*
 * m6502asm - Lexical analyzer.
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

// Package lexer implements the assembler's lexical analyzer (spec §4.B):
// a single shared current-token record with one level of pushback, built
// on top of the character-level input stack in package source.
package lexer

import (
	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/opctab"
	"github.com/rcornwell/m6502asm/internal/source"
	"github.com/rcornwell/m6502asm/internal/symtab"
	"github.com/rcornwell/m6502asm/internal/token"
)

// Lexer turns characters from a source.Source into token.Token values,
// resolving bare identifiers against the opcode/operator tables and the
// symbol table.
type Lexer struct {
	src        *source.Source
	syms       *symtab.Table
	lastGlobal *string
	cur        token.Token
	pushed     bool
}

// New builds a Lexer over src. lastGlobal is a pointer into the shared
// assembler state's "most recent non-local label" mailbox (spec §3); the
// lexer reads it at lex time to qualify local-label references.
func New(src *source.Source, syms *symtab.Table, lastGlobal *string) *Lexer {
	return &Lexer{src: src, syms: syms, lastGlobal: lastGlobal}
}

// isAlphaStart is the lexer's isalph(): a letter, underscore, or the
// leading '.' of a local label (spec §4.C) — see SPEC_FULL.md for why
// leading '.' is accepted here.
func isAlphaStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '.'
}

func isIdentCont(c byte) bool {
	return isAlphaStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Unlex marks the current token for replay on the next Lex call.
func (l *Lexer) Unlex() {
	l.pushed = true
}

// Current returns the most recently produced token without consuming
// another one.
func (l *Lexer) Current() *token.Token {
	return &l.cur
}

// Lex returns a pointer to the single shared current-token record.
func (l *Lexer) Lex() (*token.Token, *errs.Error) {
	if l.pushed {
		l.pushed = false
		return &l.cur, nil
	}

	c := l.skipBlanks()

	switch {
	case c == '\n':
		l.cur = token.Token{Kind: token.EOL}
	case c == ',':
		l.cur = token.Token{Kind: token.Sep, Text: ","}
	case isDigit(c):
		return l.lexNumber(c, 10)
	case c == '$':
		return l.lexNumber(l.src.Popc(), 16)
	case c == '%':
		return l.lexNumber(l.src.Popc(), 2)
	case c == '@':
		return l.lexNumber(l.src.Popc(), 8)
	case c == '\'':
		return l.lexChar()
	case c == '"':
		return l.lexString()
	case isAlphaStart(c):
		return l.lexIdent(c)
	default:
		return l.lexPunct(c)
	}
	return &l.cur, nil
}

func (l *Lexer) skipBlanks() byte {
	for {
		c := l.src.Popc()
		if c != ' ' {
			return c
		}
	}
}

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func (l *Lexer) lexNumber(first byte, radix int) (*token.Token, *errs.Error) {
	var value uint32
	c := first
	consumed := false
	for {
		d, ok := digitValue(c)
		if !ok || d >= radix {
			break
		}
		value = value*uint32(radix) + uint32(d)
		consumed = true
		c = l.src.Popc()
	}
	l.src.Pushc(c)
	if !consumed {
		l.cur = token.Token{Kind: token.Val, Value: 0}
		return &l.cur, &errs.Error{Code: errs.Digit}
	}
	l.cur = token.Token{Kind: token.Val, Value: value}
	return &l.cur, nil
}

func (l *Lexer) lexChar() (*token.Token, *errs.Error) {
	c := l.src.Popc()
	closing := l.src.Popc()
	l.cur = token.Token{Kind: token.Val, Value: uint32(c)}
	if closing != '\'' {
		l.src.Pushc(closing)
		return &l.cur, &errs.Error{Code: errs.Syntax}
	}
	return &l.cur, nil
}

func (l *Lexer) lexString() (*token.Token, *errs.Error) {
	var text []byte
	for {
		c := l.src.Popc()
		if c == '\n' {
			l.cur = token.Token{Kind: token.Str, Text: string(text)}
			return &l.cur, &errs.Error{Code: errs.Quote}
		}
		if c == '"' {
			break
		}
		text = append(text, c)
	}
	l.cur = token.Token{Kind: token.Str, Text: string(text)}
	return &l.cur, nil
}

func (l *Lexer) lexIdent(first byte) (*token.Token, *errs.Error) {
	name := []byte{first}
	for {
		c := l.src.Popc()
		if !isIdentCont(c) {
			l.src.Pushc(c)
			break
		}
		name = append(name, c)
	}
	text := string(name)

	if op, ok := opctab.FindOperator(text); ok {
		l.cur = token.Token{Kind: op.Kind, Prec: op.Prec, Arity: op.Arity, Op: op.Op, Reg: op.Op, Text: text}
		return &l.cur, nil
	}

	qname := symtab.Qualify(text, *l.lastGlobal)
	sym := l.syms.NewSymbol(qname)
	forward := sym.Attr&symtab.Val == 0 || sym.Attr&symtab.Forwd != 0
	l.cur = token.Token{Kind: token.Val, Value: uint32(sym.Value), Text: text, Forward: forward}
	return &l.cur, nil
}

func (l *Lexer) lexPunct(c byte) (*token.Token, *errs.Error) {
	switch c {
	case '+':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Add, Arity: token.Binary, Op: '+'}
	case '-':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Add, Arity: token.Binary, Op: '-'}
	case '*':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Mult, Arity: token.Binary, Op: '*'}
	case '/':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Mult, Arity: token.Binary, Op: '/'}
	case '(':
		l.cur = token.Token{Kind: token.Opr, Op: '('}
	case ')':
		l.cur = token.Token{Kind: token.Opr, Op: ')'}
	case '[':
		l.cur = token.Token{Kind: token.Opr, Op: '('}
	case ']':
		l.cur = token.Token{Kind: token.Opr, Op: ')'}
	case '<':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: '<'}
	case '>':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: '>'}
	case '=':
		l.cur = token.Token{Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: '='}
	case '#':
		l.cur = token.Token{Kind: token.Opr, Op: '#'}
	case '!':
		l.cur = token.Token{Kind: token.Opr, Op: '!'}
	default:
		l.cur = token.Token{Kind: token.EOL}
		return &l.cur, &errs.Error{Code: errs.Syntax}
	}
	return &l.cur, nil
}

// PopName skips leading blanks and copies an alphanumeric identifier run
// directly off the character stream (spec §4.B's pops()), independent of
// tokenization. Used by the driver to pull the label and mnemonic fields.
func PopName(src *source.Source) string {
	var c byte
	for {
		c = src.Popc()
		if c != ' ' {
			break
		}
	}
	if !isAlphaStart(c) {
		src.Pushc(c)
		return ""
	}
	name := []byte{c}
	for {
		c = src.Popc()
		if !isIdentCont(c) {
			src.Pushc(c)
			break
		}
		name = append(name, c)
	}
	return string(name)
}

// Trash skips blank space and pushes back the character following it
// (spec §4.B's trash()).
func Trash(src *source.Source) byte {
	c := src.Popc()
	for c == ' ' {
		c = src.Popc()
	}
	src.Pushc(c)
	return c
}

// IsAlpha reports whether c can start an identifier (spec §4.B isalph()).
func IsAlpha(c byte) bool {
	return isAlphaStart(c)
}
