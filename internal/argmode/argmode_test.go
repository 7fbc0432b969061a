/*
 * m6502asm - Argument-mode decoder test routines.
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

package argmode

import (
	"os"
	"testing"

	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/source"
	"github.com/rcornwell/m6502asm/internal/symtab"
)

func newLexer(t *testing.T, text string) *lexer.Lexer {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "argtest*.asm")
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

func TestDecodeForms(t *testing.T) {
	cases := []struct {
		text     string
		wantAttr Attr
		wantVal  uint32
	}{
		{"#$10", Imm | Num, 0x10},
		{"$10", Num, 0x10},
		{"$10,X", Num | X, 0x10},
		{"$10,Y", Num | Y, 0x10},
		{"($10)", Ind | Num, 0x10},
		{"($10,X)", Ind | Num | X, 0x10},
		{"($10),Y", Ind | Num | Y, 0x10},
		{"A", A, 0},
	}
	for _, c := range cases {
		lx := newLexer(t, c.text)
		a, forceabs, err := Decode(lx)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.text, err)
			continue
		}
		if forceabs {
			t.Errorf("%q: unexpected forceabs", c.text)
		}
		if a.Attr != c.wantAttr {
			t.Errorf("%q: got Attr=%#x, want %#x", c.text, a.Attr, c.wantAttr)
		}
		if a.Attr&Num != 0 && a.Value != c.wantVal {
			t.Errorf("%q: got Value=%#x, want %#x", c.text, a.Value, c.wantVal)
		}
	}
}

func TestDecodeForceAbs(t *testing.T) {
	lx := newLexer(t, "!$10")
	a, forceabs, err := Decode(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !forceabs {
		t.Error("expected forceabs to be set by leading '!'")
	}
	if a.Value != 0x10 {
		t.Errorf("got Value=%#x, want 0x10", a.Value)
	}
}

func TestDecodeNoOperand(t *testing.T) {
	lx := newLexer(t, "")
	a, forceabs, err := Decode(lx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if a.Attr != 0 || forceabs {
		t.Errorf("expected empty Args, got %+v forceabs=%v", a, forceabs)
	}
}

func TestDecodeBadIndirect(t *testing.T) {
	lx := newLexer(t, "($10,Y)")
	_, _, err := Decode(lx)
	if err == nil {
		t.Fatal("expected syntax error for ($expr,Y)")
	}
}

func TestDecodeUnbalancedIndirect(t *testing.T) {
	lx := newLexer(t, "($10")
	_, _, err := Decode(lx)
	if err == nil {
		t.Fatal("expected paren error for unterminated indirect")
	}
}
