/*
 * m6502asm - Two-pass driver test routines.
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

package assembler

import (
	"os"
	"path/filepath"
	"testing"
)

// memBinary is a Binary sink that just appends to a slice.
type memBinary struct {
	data []byte
}

func (m *memBinary) Write(data []byte) error {
	m.data = append(m.data, data...)
	return nil
}

// memListing records every line and symbol it's given, for assertions.
type memListing struct {
	lines   []string
	titles  []string
	ejects  int
	msgs    []string
	symbols map[string]uint16
	closed  bool
}

func newMemListing() *memListing {
	return &memListing{symbols: map[string]uint16{}}
}

func (m *memListing) Line(errCode byte, addr uint16, obj []byte, text string) {
	m.lines = append(m.lines, text)
}
func (m *memListing) Title(title string)   { m.titles = append(m.titles, title) }
func (m *memListing) Eject()               { m.ejects++ }
func (m *memListing) Message(text string)  { m.msgs = append(m.msgs, text) }
func (m *memListing) Symbol(name string, value uint16) { m.symbols[name] = value }
func (m *memListing) Close() error         { m.closed = true; return nil }

type memExport struct {
	symbols map[string]uint16
	closed  bool
}

func newMemExport() *memExport { return &memExport{symbols: map[string]uint16{}} }

func (m *memExport) Symbol(name string, value uint16) error {
	m.symbols[name] = value
	return nil
}
func (m *memExport) Close() error { m.closed = true; return nil }

func writeSource(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.a65")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := writeSource(t, "\tORG $1000\nSTART\tLDA #$42\n\tSTA $10\n\tJMP START\n")

	bin := &memBinary{}
	lst := newMemListing()
	res, err := Assemble(src, Sinks{Binary: bin, Listing: lst})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Errors != 0 {
		t.Fatalf("got %d errors, want 0", res.Errors)
	}

	want := []byte{0xa9, 0x42, 0x85, 0x10, 0x4c, 0x00, 0x10}
	if len(bin.data) != len(want) {
		t.Fatalf("got %x, want %x", bin.data, want)
	}
	for i := range want {
		if bin.data[i] != want[i] {
			t.Errorf("byte %d: got %#x want %#x", i, bin.data[i], want[i])
		}
	}

	if lst.symbols["START"] != 0x1000 {
		t.Errorf("got START=%#x, want 0x1000", lst.symbols["START"])
	}
	if !lst.closed {
		t.Error("listing should be closed after Assemble returns")
	}
}

func TestAssembleUndefinedSymbolIsReported(t *testing.T) {
	src := writeSource(t, "\tLDA NOPE\n")

	res, err := Assemble(src, Sinks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Errors == 0 {
		t.Error("referencing an undefined symbol should count as an error")
	}
}

func TestAssembleForwardReferenceResolves(t *testing.T) {
	src := writeSource(t, "\tJMP LATER\nLATER\tNOP\n")

	bin := &memBinary{}
	res, err := Assemble(src, Sinks{Binary: bin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Errors != 0 {
		t.Fatalf("got %d errors, want 0: forward ref to a later label should resolve", res.Errors)
	}
	want := []byte{0x4c, 0x03, 0x00, 0xea}
	if len(bin.data) != len(want) {
		t.Fatalf("got %x, want %x", bin.data, want)
	}
}

func TestAssembleExportWritesSymbol(t *testing.T) {
	src := writeSource(t, "FOO\tEQU $42\n\tEXP FOO\n")

	exp := newMemExport()
	_, err := Assemble(src, Sinks{Export: exp})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.symbols["FOO"] != 0x42 {
		t.Errorf("got FOO=%#x, want 0x42", exp.symbols["FOO"])
	}
	if !exp.closed {
		t.Error("export sink should be closed after Assemble returns")
	}
}

func TestAssembleConditionalSkipsBody(t *testing.T) {
	src := writeSource(t, "\tIF 0\n\tNOP\n\tELSE\n\tINX\n\tENDI\n")

	bin := &memBinary{}
	res, err := Assemble(src, Sinks{Binary: bin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Errors != 0 {
		t.Fatalf("got %d errors, want 0", res.Errors)
	}
	if len(bin.data) != 1 || bin.data[0] != 0xe8 {
		t.Errorf("got %x, want the ELSE branch's single INX byte 0xe8", bin.data)
	}
}

func TestAssembleOrgPadsBinary(t *testing.T) {
	src := writeSource(t, "\tNOP\n\tORG $0005\n\tNOP\n")

	bin := &memBinary{}
	_, err := Assemble(src, Sinks{Binary: bin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xea, 0, 0, 0, 0, 0xea}
	if len(bin.data) != len(want) {
		t.Fatalf("got %x, want %x", bin.data, want)
	}
	for i := range want {
		if bin.data[i] != want[i] {
			t.Errorf("byte %d: got %#x want %#x", i, bin.data[i], want[i])
		}
	}
}

func TestAssembleMultiplyDefinedLabelIsError(t *testing.T) {
	src := writeSource(t, "FOO\tNOP\nFOO\tNOP\n")

	res, err := Assemble(src, Sinks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Errors == 0 {
		t.Error("redefining FOO at a different address should be an error")
	}
}
