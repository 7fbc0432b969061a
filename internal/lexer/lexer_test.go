/*
 * m6502asm - Lexical analyzer test routines.
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

package lexer

import (
	"os"
	"testing"

	"github.com/rcornwell/m6502asm/internal/source"
	"github.com/rcornwell/m6502asm/internal/symtab"
	"github.com/rcornwell/m6502asm/internal/token"
)

func newSource(t *testing.T, text string) *source.Source {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "lextest*.asm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(text); err != nil {
		t.Fatal(err)
	}
	f.Close()
	src, err := source.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	src.Newline()
	return src
}

func newLexer(t *testing.T, text string) *Lexer {
	t.Helper()
	src := newSource(t, text)
	syms := symtab.New()
	last := ""
	return New(src, syms, &last)
}

func TestLexNumbers(t *testing.T) {
	lx := newLexer(t, "123 $1F %101 @17")
	want := []uint32{123, 0x1f, 5, 15}
	for i, w := range want {
		tok, err := lx.Lex()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Kind != token.Val || tok.Value != w {
			t.Errorf("token %d: got kind=%v value=%d, want Val value=%d", i, tok.Kind, tok.Value, w)
		}
	}
}

func TestLexChar(t *testing.T) {
	lx := newLexer(t, "'A'")
	tok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tok.Kind != token.Val || tok.Value != 'A' {
		t.Errorf("got kind=%v value=%d, want Val value=65", tok.Kind, tok.Value)
	}
}

func TestLexString(t *testing.T) {
	lx := newLexer(t, "\"hello\"")
	tok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tok.Kind != token.Str || tok.Text != "hello" {
		t.Errorf("got kind=%v text=%q, want Str text=%q", tok.Kind, tok.Text, "hello")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	lx := newLexer(t, "\"oops")
	_, err := lx.Lex()
	if err == nil {
		t.Fatal("expected unterminated-string error")
	}
	if err.Code != 0x22 {
		t.Errorf("got code %q, want Quote", string(rune(err.Code)))
	}
}

func TestLexRegisters(t *testing.T) {
	lx := newLexer(t, "A X Y")
	want := []byte{'A', 'X', 'Y'}
	for i, w := range want {
		tok, err := lx.Lex()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Kind != token.Reg || tok.Op != w {
			t.Errorf("token %d: got kind=%v op=%c, want Reg op=%c", i, tok.Kind, tok.Op, w)
		}
	}
}

func TestLexWordOperators(t *testing.T) {
	lx := newLexer(t, "HIGH LOW AND OR SHL EQ")
	want := []byte{token.OpHigh, token.OpLow, token.OpAnd, token.OpOr, token.OpShl, token.OpEq}
	for i, w := range want {
		tok, err := lx.Lex()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Kind != token.Opr || tok.Op != w {
			t.Errorf("token %d: got kind=%v op=%#x, want Opr op=%#x", i, tok.Kind, tok.Op, w)
		}
	}
}

func TestLexIdentifier(t *testing.T) {
	lx := newLexer(t, "LABEL1")
	tok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tok.Kind != token.Val || tok.Text != "LABEL1" {
		t.Errorf("got kind=%v text=%q, want Val text=LABEL1", tok.Kind, tok.Text)
	}
	if !tok.Forward {
		t.Error("first reference to an undefined symbol should be Forward")
	}
}

func TestLexLocalLabel(t *testing.T) {
	last := "GLOB"
	src := newSource(t, ".LOOP")
	syms := symtab.New()
	lx := New(src, syms, &last)
	tok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tok.Kind != token.Val || tok.Text != ".LOOP" {
		t.Errorf("got kind=%v text=%q, want Val text=.LOOP", tok.Kind, tok.Text)
	}
	if sym := syms.FindSymbol("GLOB.LOOP"); sym == nil {
		t.Error("local label was not qualified against lastGlobal")
	}
}

func TestLexPunctuation(t *testing.T) {
	lx := newLexer(t, "+ - * / ( ) < > = # !")
	want := []byte{'+', '-', '*', '/', '(', ')', '<', '>', '=', '#', '!'}
	for i, w := range want {
		tok, err := lx.Lex()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Kind != token.Opr || tok.Op != w {
			t.Errorf("token %d: got kind=%v op=%c, want Opr op=%c", i, tok.Kind, tok.Op, w)
		}
	}
}

func TestLexBrackets(t *testing.T) {
	lx := newLexer(t, "[ ]")
	open, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if open.Op != '(' {
		t.Errorf("'[' got op=%c, want '('", open.Op)
	}
	closeTok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if closeTok.Op != ')' {
		t.Errorf("']' got op=%c, want ')'", closeTok.Op)
	}
}

func TestUnlex(t *testing.T) {
	lx := newLexer(t, "123 456")
	first, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	firstValue := first.Value
	lx.Unlex()
	replay, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if replay.Value != firstValue {
		t.Errorf("replayed token value=%d, want %d", replay.Value, firstValue)
	}
	second, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if second.Value != 456 {
		t.Errorf("second token value=%d, want 456", second.Value)
	}
}

func TestLexEOL(t *testing.T) {
	lx := newLexer(t, "")
	tok, err := lx.Lex()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tok.Kind != token.EOL {
		t.Errorf("got kind=%v, want EOL", tok.Kind)
	}
}

func TestPopNameAndTrash(t *testing.T) {
	src := newSource(t, "  LOOP123  +")
	name := PopName(src)
	if name != "LOOP123" {
		t.Errorf("PopName got %q, want LOOP123", name)
	}
	if c := Trash(src); c != '+' {
		t.Errorf("Trash left next char %c, want +", c)
	}
}
