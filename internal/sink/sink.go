/*
 * m6502asm - Binary, listing, and export output sinks.
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

// Package sink implements the three concrete output destinations spec §6
// leaves abstract: the flat binary image, the human-readable listing, and
// the symbol-export file. All three are buffered writers over an
// *os.File, matching the house style's buffered-file idiom (util/card,
// util/tape).
package sink

import (
	"bufio"
	"os"
	"strings"

	"github.com/rcornwell/m6502asm/internal/symtab"
	"github.com/rcornwell/m6502asm/util/hex"
)

// symCols is the listing's column width for the alphabetical symbol dump
// (spec §6 SYMCOLS), four symbols per row.
const symCols = 4

// Binary is the flat-binary output sink (spec §6 "Binary output": raw
// bytes in encoder-emission order, no header, no checksums).
type Binary struct {
	f *os.File
	w *bufio.Writer
}

// OpenBinary creates (truncating) the binary output file at path.
func OpenBinary(path string) (*Binary, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Binary{f: f, w: bufio.NewWriter(f)}, nil
}

func (b *Binary) Write(data []byte) error {
	_, err := b.w.Write(data)
	return err
}

// Close flushes and closes the underlying file.
func (b *Binary) Close() error {
	if err := b.w.Flush(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

// Listing is the per-line assembly listing sink (spec §6 "Listing file").
// Pagination (form feeds, page length, title banner) is left to the line
// caller per spec §1's scope note ("pagination cosmetics of the listing"
// is out of scope) beyond the bare form-feed/eject support below.
type Listing struct {
	f       *os.File
	w       *bufio.Writer
	title   string
	symbols []symtab.Symbol
}

// OpenListing creates (truncating) the listing file at path.
func OpenListing(path string) (*Listing, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Listing{f: f, w: bufio.NewWriter(f)}, nil
}

// Line writes one source line's listing row(s) (spec §6 row format):
//
//	"%c  %04x  %02x %02x %02x %02x   <source>"
//
// Emissions longer than four bytes wrap onto further rows with an
// advancing address and a blank error column and source field.
func (l *Listing) Line(errCode byte, addr uint16, obj []byte, text string) {
	text = strings.TrimRight(text, "\n")
	if errCode == 0 {
		errCode = ' '
	}
	first := true
	i := 0
	for {
		var sb strings.Builder
		sb.WriteByte(errCode)
		sb.WriteString("  ")
		hex.FormatWord(&sb, addr)
		sb.WriteString("  ")
		for col := 0; col < 4; col++ {
			if i < len(obj) {
				hex.FormatByte(&sb, obj[i])
				i++
			} else {
				sb.WriteString("  ")
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("  ")
		if first {
			sb.WriteString(text)
		}
		l.w.WriteString(sb.String())
		l.w.WriteByte('\n')
		first = false
		errCode = ' '
		addr += 4
		if i >= len(obj) {
			break
		}
	}
}

// Title records the current TITL banner (spec §4.H TITL).
func (l *Listing) Title(title string) {
	l.title = title
}

// Eject writes a form feed to separate pages (spec §4.H PAGE, §6 "Form-feed
// separate pages").
func (l *Listing) Eject() {
	l.w.WriteByte('\f')
	if l.title != "" {
		l.w.WriteString(l.title)
		l.w.WriteByte('\n')
	}
}

// Message writes one MSG directive's text verbatim into the listing,
// newline-terminated. The driver also writes the same text to stderr.
func (l *Listing) Message(text string) {
	l.w.WriteString(text)
	l.w.WriteByte('\n')
}

// Symbol records one entry for the trailing alphabetical symbol dump.
// Entries are buffered and laid out symCols-wide when Close flushes them,
// since the table is only complete once assembly has finished.
func (l *Listing) Symbol(name string, value uint16) {
	l.symbols = append(l.symbols, symtab.Symbol{Name: name, Value: value, Attr: symtab.Val})
}

func (l *Listing) Close() error {
	l.w.WriteByte('\f')
	l.w.WriteString("Symbol Table\n\n")
	for i, sym := range l.symbols {
		var sb strings.Builder
		sb.WriteString(sym.Name)
		for sb.Len() < 12 {
			sb.WriteByte(' ')
		}
		hex.FormatWord(&sb, sym.Value)
		l.w.WriteString(sb.String())
		if (i+1)%symCols == 0 {
			l.w.WriteByte('\n')
		} else {
			l.w.WriteString("   ")
		}
	}
	l.w.WriteByte('\n')
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// Export is the symbol-export file sink (spec §6 "Export file").
type Export struct {
	f *os.File
	w *bufio.Writer
}

const exportHeader = "; Autogenerated export file - do not modify!"

// OpenExport creates (truncating) the export file at path and writes its
// header line immediately.
func OpenExport(path string) (*Export, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	e := &Export{f: f, w: bufio.NewWriter(f)}
	e.w.WriteString(exportHeader)
	e.w.WriteByte('\n')
	return e, nil
}

// Symbol appends one "name\tequ\t$HEX\n" row (spec §6 Export file). The
// value is rendered with no leading zeros, matching the original's
// "$%X" formatting.
func (e *Export) Symbol(name string, value uint16) error {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('\t')
	sb.WriteString("equ")
	sb.WriteByte('\t')
	sb.WriteByte('$')
	hex.FormatWordMin(&sb, value)
	sb.WriteByte('\n')
	_, err := e.w.WriteString(sb.String())
	return err
}

func (e *Export) Close() error {
	if err := e.w.Flush(); err != nil {
		e.f.Close()
		return err
	}
	return e.f.Close()
}
