/*
 * m6502asm - Expression evaluator test routines.
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

package expr

import (
	"os"
	"testing"

	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/source"
	"github.com/rcornwell/m6502asm/internal/symtab"
)

func newLexer(t *testing.T, text string) *lexer.Lexer {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "exprtest*.asm")
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
	syms := symtab.New()
	last := ""
	return lexer.New(src, syms, &last)
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want uint32
	}{
		{"1 + 2", 3},
		{"10 - 4", 6},
		{"3 * 4", 12},
		{"10 / 3", 3},
		{"10 MOD 3", 1},
		{"1 SHL 4", 16},
		{"$100 SHR 4", 0x10},
		{"-5 + 10", 5},
		{"NOT 0", 0xffffffff},
		{"(1 + 2) * 3", 9},
		{"HIGH $1234", 0x12},
		{"LOW $1234", 0x34},
		{">$1234", 0x12},
		{"<$1234", 0x34},
	}
	for _, c := range cases {
		lx := newLexer(t, c.expr)
		r, err := Eval(lx)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.expr, err)
			continue
		}
		if r.Value != c.want {
			t.Errorf("%q: got %#x, want %#x", c.expr, r.Value, c.want)
		}
	}
}

func TestEvalRelational(t *testing.T) {
	cases := []struct {
		expr string
		want uint32
	}{
		{"1 < 2", 0xffffffff},
		{"2 < 1", 0},
		{"3 EQ 3", 0xffffffff},
		{"3 NE 3", 0},
		{"5 GE 5", 0xffffffff},
	}
	for _, c := range cases {
		lx := newLexer(t, c.expr)
		r, err := Eval(lx)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.expr, err)
			continue
		}
		if r.Value != c.want {
			t.Errorf("%q: got %#x, want %#x", c.expr, r.Value, c.want)
		}
	}
}

func TestEvalLogical(t *testing.T) {
	lx := newLexer(t, "$0f AND $ff")
	r, err := Eval(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Value != 0x0f {
		t.Errorf("got %#x, want 0x0f", r.Value)
	}

	lx = newLexer(t, "$0f OR $f0")
	r, err = Eval(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Value != 0xff {
		t.Errorf("got %#x, want 0xff", r.Value)
	}

	lx = newLexer(t, "$ff XOR $0f")
	r, err = Eval(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Value != 0xf0 {
		t.Errorf("got %#x, want 0xf0", r.Value)
	}
}

func TestEvalUnbalancedParen(t *testing.T) {
	lx := newLexer(t, "(1 + 2")
	_, err := Eval(lx)
	if err == nil {
		t.Fatal("expected unbalanced-paren error")
	}
}

func TestEvalForwardReference(t *testing.T) {
	lx := newLexer(t, "UNDEFINED + 1")
	r, err := Eval(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !r.Forward {
		t.Error("expected Forward to propagate from an unresolved symbol")
	}
}

func TestEvalBareRegister(t *testing.T) {
	lx := newLexer(t, "A")
	r, err := Eval(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Reg != 'A' {
		t.Errorf("got Reg=%c, want A", r.Reg)
	}
}

func TestEvalDivideByZero(t *testing.T) {
	lx := newLexer(t, "1 / 0")
	_, err := Eval(lx)
	if err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}
