/*
 * m6502asm - Two-pass assembler driver.
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

// Package assembler is the two-pass driver (spec §4.I): it wires the
// character stack, lexer, symbol table, opcode table, expression
// evaluator, argument decoder, encoder, and pseudo-op handlers together,
// line by line, exactly as original_source/a65.c's main()/asm_line() do.
package assembler

import (
	"fmt"
	"os"

	"github.com/rcornwell/m6502asm/internal/argmode"
	"github.com/rcornwell/m6502asm/internal/encoder"
	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/opctab"
	"github.com/rcornwell/m6502asm/internal/pseudo"
	"github.com/rcornwell/m6502asm/internal/source"
	"github.com/rcornwell/m6502asm/internal/symtab"
	"github.com/rcornwell/m6502asm/internal/token"
)

// ifDepth bounds the conditional-assembly stack (spec §3 IFDEPTH); push
// past this is the fatal IFOFLOW.
const ifDepth = 32

// Binary receives object bytes as they're produced in pass 2.
type Binary interface {
	Write(data []byte) error
}

// Listing receives one source line's result, plus title/eject/message
// side channels, and the final alphabetical symbol dump (spec §6).
type Listing interface {
	Line(errCode byte, addr uint16, obj []byte, text string)
	Title(title string)
	Eject()
	Message(text string)
	Symbol(name string, value uint16)
	Close() error
}

// Export receives EXP'd symbols for the standalone export file.
type Export interface {
	Symbol(name string, value uint16) error
	Close() error
}

// Sinks are the three optional output destinations (spec §1 "out of
// scope... specified only at their interfaces").
type Sinks struct {
	Binary  Binary
	Listing Listing
	Export  Export
}

// Result summarizes one assembly run.
type Result struct {
	Errors int
}

// State is the assembler's process-global state (spec §3), reset between
// passes but not between runs of the same Assemble call.
type State struct {
	src        *source.Source
	lx         *lexer.Lexer
	syms       *symtab.Table
	lastglobal string

	pass    int
	pc      uint16
	address uint16
	objBuf  []byte
	label   string
	hasErr  bool
	errcode errs.Code

	forceabs bool
	listhex  bool
	eject    bool
	off      bool
	ifstack  []bool
	pagelen  int
	title    string
	done     bool
	errors   int

	sinks Sinks
}

// Assemble runs both passes over path and, in pass 2, streams output to
// sinks. Any zero-valued Sinks field disables that output, matching the
// CLI's optional -o/-l/-e flags.
func Assemble(path string, sinks Sinks) (*Result, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	st := &State{src: src, syms: symtab.New(), sinks: sinks, pagelen: 66}
	st.lx = lexer.New(src, st.syms, &st.lastglobal)

	for pass := 1; pass <= 2; pass++ {
		if err := src.Rewind(); err != nil {
			return nil, err
		}
		st.beginPass(pass)

		for !st.done {
			eof := src.Newline()
			text := src.Line()

			fatal := st.assembleLine(eof)
			if fatal != nil {
				return nil, fatal
			}

			st.pc += uint16(len(st.objBuf))

			if pass == 2 {
				st.flushLine(text)
			}
		}
	}

	st.checkUndefined()

	if sinks.Listing != nil {
		for _, name := range st.syms.Names() {
			if sym := st.syms.FindSymbol(name); sym != nil {
				sinks.Listing.Symbol(name, sym.Value)
			}
		}
		if err := sinks.Listing.Close(); err != nil {
			return nil, err
		}
	}
	if sinks.Export != nil {
		if err := sinks.Export.Close(); err != nil {
			return nil, err
		}
	}

	return &Result{Errors: st.errors}, nil
}

func (st *State) beginPass(pass int) {
	st.pass = pass
	st.pc = 0
	st.off = false
	st.done = false
	st.ifstack = st.ifstack[:0]
	st.pagelen = 66
	st.title = ""
	st.lastglobal = ""
}

// flushLine writes one line's accumulated bytes to the binary and
// listing sinks (spec §4.I: "flush to (J) only during pass 2").
func (st *State) flushLine(text string) {
	if st.sinks.Binary != nil && len(st.objBuf) > 0 {
		if err := st.sinks.Binary.Write(st.objBuf); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
			os.Exit(2)
		}
	}
	if st.sinks.Listing != nil && st.listhex {
		code := byte(0)
		if st.hasErr {
			code = byte(st.errcodeForListing())
		}
		st.sinks.Listing.Line(code, st.address, st.objBuf, text)
	}
	if st.eject && st.sinks.Listing != nil {
		st.sinks.Listing.Eject()
	}
}

// checkUndefined runs the end-of-assembly sweep for symbols that were
// referenced but never assigned a value by either pass (spec §7 error
// 'U'). A referenced-only symbol carries Attr==0 (no Val bit set), not
// Forwd — Forwd marks a forward reference that pass 2 is expected to
// resolve, and a properly defined symbol has Val set by then.
func (st *State) checkUndefined() {
	for _, name := range st.syms.Names() {
		sym := st.syms.FindSymbol(name)
		if sym.Attr&symtab.Val == 0 {
			st.errors++
			fmt.Fprintf(os.Stderr, "%s: U -- undefined symbol %s\n", st.src.Path(), name)
		}
	}
}

// assembleLine ports asm_line(): parse the label field, the mnemonic
// field, dispatch to a pseudo-op or a normal opcode, then sweep for
// trailing garbage. A non-nil return is fatal (IF/include overflow).
func (st *State) assembleLine(eof bool) *errs.Fatal {
	st.address = st.pc
	st.objBuf = st.objBuf[:0]
	st.label = ""
	st.hasErr = false
	st.errcode = 0
	st.forceabs = false
	st.listhex = false
	st.eject = false

	if eof {
		st.done = true
		return pseudo.Handle(opctab.PEnd, st)
	}

	st.parseLabel()
	lexer.Trash(st.src)

	var op opctab.Opcode
	var name string
	haveOp := false

	c := st.src.Popc()
	if c != '\n' {
		if !lexer.IsAlpha(c) {
			st.Error(errs.Syntax)
		} else {
			st.src.Pushc(c)
			name = lexer.PopName(st.src)
			op, haveOp = opctab.Find(name)
			if !haveOp {
				st.Error(errs.Opcode)
			}
		}
	}

	switch {
	case haveOp && op.IsIf:
		if st.label != "" {
			st.Error(errs.Label)
		}
	case st.off:
		st.listhex = false
		st.flushToEOL()
		return nil
	}

	if !haveOp {
		pseudo.DefineLabel(st)
		st.flushToEOL()
		return nil
	}

	st.listhex = true
	var fatal *errs.Fatal
	if op.Family == opctab.Pseudo {
		fatal = pseudo.Handle(op.Value, st)
	} else {
		fatal = st.normalOp(name, op)
	}
	if fatal != nil {
		return fatal
	}

	if tok, lerr := st.lx.Lex(); lerr != nil || tok.Kind != token.EOL {
		st.Error(errs.TooMany)
	}
	for {
		c := st.src.Popc()
		if c == '\n' {
			break
		}
		if c != ' ' {
			st.Error(errs.TooMany)
		}
	}
	return nil
}

func (st *State) parseLabel() {
	first := st.src.Popc()
	if first == '\n' || first == ' ' {
		return
	}
	if !lexer.IsAlpha(first) {
		st.Error(errs.Label)
		for {
			c := st.src.Popc()
			if c == ' ' || c == '\n' {
				st.src.Pushc(c)
				return
			}
		}
	}
	st.src.Pushc(first)
	name := lexer.PopName(st.src)
	if _, ok := opctab.FindOperator(name); ok {
		st.Error(errs.Label)
		return
	}
	st.label = name
	if c := st.src.Popc(); c != ':' {
		st.src.Pushc(c)
	}
}

func (st *State) flushToEOL() {
	for {
		if st.src.Popc() == '\n' {
			return
		}
	}
}

func (st *State) normalOp(name string, op opctab.Opcode) *errs.Fatal {
	pseudo.DefineLabel(st)

	args, forceabs, err := argmode.Decode(st.lx)
	st.forceabs = forceabs
	if err != nil {
		st.Error(err.Code)
	}

	res, encErr := encoder.Encode(name, op, args, forceabs, st.address)
	if encErr != nil {
		st.Error(encErr.Code)
	}
	for i := 0; i < res.Bytes; i++ {
		st.Emit(res.Obj[i])
	}
	return nil
}

// --- pseudo.Context ---

func (st *State) Pass() int           { return st.pass }
func (st *State) PC() uint16          { return st.pc }
func (st *State) SetPC(pc uint16)     { st.pc = pc }
func (st *State) SetAddress(a uint16) { st.address = a }
func (st *State) Label() string       { return st.label }
func (st *State) Lexer() *lexer.Lexer { return st.lx }
func (st *State) Symbols() *symtab.Table { return st.syms }
func (st *State) LastGlobal() *string { return &st.lastglobal }

func (st *State) Emit(b byte) { st.objBuf = append(st.objBuf, b) }

func (st *State) PadBinary(n uint16) {
	if st.pass != 2 || st.sinks.Binary == nil || n == 0 {
		return
	}
	pad := make([]byte, n)
	if err := st.sinks.Binary.Write(pad); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
		os.Exit(2)
	}
}

func (st *State) SetListHex(v bool) { st.listhex = v }
func (st *State) SetEject(v bool)   { st.eject = v }
func (st *State) Off() bool         { return st.off }
func (st *State) SetOff(v bool)     { st.off = v }

func (st *State) IfPush() bool {
	if len(st.ifstack) >= ifDepth {
		return false
	}
	st.ifstack = append(st.ifstack, true)
	return true
}

func (st *State) IfSetTop(state bool) {
	if len(st.ifstack) == 0 {
		return
	}
	st.ifstack[len(st.ifstack)-1] = state
}

func (st *State) IfToggleTop() (bool, bool) {
	if len(st.ifstack) == 0 {
		return false, false
	}
	top := len(st.ifstack) - 1
	st.ifstack[top] = !st.ifstack[top]
	return st.ifstack[top], true
}

func (st *State) IfPop() (bool, bool) {
	if len(st.ifstack) == 0 {
		return false, false
	}
	st.ifstack = st.ifstack[:len(st.ifstack)-1]
	if len(st.ifstack) == 0 {
		return true, true
	}
	return st.ifstack[len(st.ifstack)-1], true
}

func (st *State) IfDepth() int { return len(st.ifstack) }

func (st *State) SetPageLen(n int) { st.pagelen = n }
func (st *State) SetTitle(s string) {
	st.title = s
	if st.sinks.Listing != nil {
		st.sinks.Listing.Title(s)
	}
}
func (st *State) SetDone(v bool) { st.done = v }
func (st *State) FileDepth() int { return st.src.Depth() }

func (st *State) Include(path string) error {
	if st.src.Depth() >= source.Files {
		return pseudo.ErrIncludeOverflow
	}
	return st.src.Include(path)
}

func (st *State) IncludeBinary(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (st *State) ExportSymbol(name string) error {
	if st.sinks.Export == nil {
		return nil
	}
	sym := st.syms.FindSymbol(name)
	if sym == nil {
		return fmt.Errorf("export: %s not defined", name)
	}
	return st.sinks.Export.Symbol(name, sym.Value)
}

func (st *State) WriteMsg(s string) {
	if st.sinks.Listing != nil {
		st.sinks.Listing.Message(s)
	}
	fmt.Fprintln(os.Stderr, s)
}

// Error records the single recoverable error code for the current line
// (spec §7: "only the first Error on a given line survives") and, in
// pass 2 only, writes the diagnostic and counts it.
func (st *State) Error(code errs.Code) {
	if st.hasErr {
		return
	}
	st.hasErr = true
	st.errcode = code
	if st.pass == 2 {
		st.errors++
		fmt.Fprintf(os.Stderr, "%s:%d: %s -- %s\n", st.src.Path(), st.src.LineNumber(), code.String(), code.Description())
	}
}

func (st *State) errcodeForListing() errs.Code { return st.errcode }
