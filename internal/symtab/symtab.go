/*
 * m6502asm - Symbol table.
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

// Package symtab is the assembler's symbol table (spec §4.C). The
// original is a hand-rolled unbalanced binary tree keyed by name; spec §9
// blesses any ordered or hashed map as a substitute so long as listing
// order stays alphabetical, so this is a plain Go map with sorting done
// at listing time.
package symtab

import "sort"

// Attr bits, carried over from spec §3's Symbol.attr.
const (
	Val   uint8 = 1 << iota // defined
	Forwd                   // first-pass only, re-checked in pass 2
	Soft                    // redefinable via SET
)

// Symbol is one entry: name, attribute bits, and value.
type Symbol struct {
	Name  string
	Attr  uint8
	Value uint16
}

// Table is the symbol table for one assembly run. It is reset between
// runs, not between passes: symbols persist across pass 1 and pass 2 so
// that pass 2 can verify what pass 1 committed.
type Table struct {
	entries map[string]*Symbol
}

// New creates an empty table.
func New() *Table {
	return &Table{entries: make(map[string]*Symbol)}
}

// NewSymbol inserts name if absent (Attr=0, Value=0) and returns the
// existing or newly created entry.
func (t *Table) NewSymbol(name string) *Symbol {
	if sym, ok := t.entries[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	t.entries[name] = sym
	return sym
}

// FindSymbol returns the entry for name, or nil if it has never been
// referenced.
func (t *Table) FindSymbol(name string) *Symbol {
	return t.entries[name]
}

// Qualify returns name unchanged unless it's a local label (starts with
// '.'), in which case it returns lastGlobal+name so that local labels in
// different scopes don't collide (spec §4.C, GLOSSARY "Local label").
func Qualify(name, lastGlobal string) string {
	if name != "" && name[0] == '.' {
		return lastGlobal + name
	}
	return name
}

// Names returns every symbol name in ascending alphabetical order, for
// the listing's alphabetical symbol-table dump.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many symbols have been referenced.
func (t *Table) Len() int {
	return len(t.entries)
}
