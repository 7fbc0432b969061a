/*
 * m6502asm - Pseudo-op (directive) handlers.
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

// Package pseudo implements the assembler's directives (spec §4.H),
// grounded line for line on original_source/a65.c's pseudo_op(). Each
// handler talks to the driver only through the Context interface so it
// can be tested without a full assembler.State (spec §9 design note).
package pseudo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/expr"
	"github.com/rcornwell/m6502asm/internal/lexer"
	"github.com/rcornwell/m6502asm/internal/opctab"
	"github.com/rcornwell/m6502asm/internal/symtab"
	"github.com/rcornwell/m6502asm/internal/token"
)

// ErrIncludeOverflow is returned by Context.Include when the file stack
// is already at its bound; the caller turns it into a fatal FLOFLOW.
var ErrIncludeOverflow = errors.New("include stack overflow")

// Context is everything a directive handler needs from the assembler
// driver (spec §3 program state), kept as an interface so pseudo can be
// unit tested against a fake instead of the full two-pass driver.
type Context interface {
	Pass() int
	PC() uint16
	SetPC(pc uint16)
	SetAddress(addr uint16)
	Label() string
	Lexer() *lexer.Lexer
	Symbols() *symtab.Table
	LastGlobal() *string
	Emit(b byte)
	// PadBinary writes n zero bytes directly to the binary sink in pass 2,
	// bypassing the per-line obj buffer: ALIGN/ORG/RMB advance pc
	// themselves (spec §4.H), so their padding must not also be counted
	// by the driver's generic "pc += bytes emitted this line" step.
	PadBinary(n uint16)
	SetListHex(v bool)
	SetEject(v bool)
	Off() bool
	SetOff(v bool)
	IfPush() bool
	IfSetTop(state bool)
	IfToggleTop() (newState bool, ok bool)
	IfPop() (parentState bool, ok bool)
	IfDepth() int
	SetPageLen(n int)
	SetTitle(s string)
	SetDone(v bool)
	FileDepth() int
	Include(path string) error
	IncludeBinary(path string) ([]byte, error)
	ExportSymbol(name string) error
	WriteMsg(s string)
	Error(code errs.Code)
}

// Handle dispatches one directive. A non-nil return is a fatal condition
// (IF nesting overflow, include-stack overflow) that aborts assembly.
func Handle(val opctab.Value, ctx Context) *errs.Fatal {
	switch val {
	case opctab.PDB:
		handleDB(ctx)
	case opctab.PDS:
		handleDS(ctx)
	case opctab.PDW:
		handleDW(ctx)
	case opctab.PElse:
		handleElse(ctx)
	case opctab.PEnd:
		handleEnd(ctx)
	case opctab.PEndi:
		handleEndi(ctx)
	case opctab.PEqu:
		handleEqu(ctx)
	case opctab.PExp:
		handleExp(ctx)
	case opctab.PIf:
		return handleIf(ctx)
	case opctab.PIncB:
		handleIncB(ctx)
	case opctab.PIncL:
		return handleIncL(ctx)
	case opctab.PMsg:
		handleMsg(ctx)
	case opctab.PAlign:
		handleAlign(ctx)
	case opctab.PBase:
		handleBase(ctx)
	case opctab.POrg:
		handleOrg(ctx)
	case opctab.PPage:
		handlePage(ctx)
	case opctab.PRmb:
		handleRmb(ctx)
	case opctab.PSet:
		handleSet(ctx)
	case opctab.PTitl:
		handleTitl(ctx)
	}
	return nil
}

// DefineLabel implements do_label(): qualifies a local label against
// lastglobal, tracks the most recent global label, and commits the
// symbol's value (pc) on pass 1 or checks it on pass 2. Exported so the
// driver can call it for label-only lines and before normal opcodes,
// exactly where the original calls do_label().
func DefineLabel(ctx Context) {
	label := ctx.Label()
	if label == "" {
		return
	}
	qname := symtab.Qualify(label, *ctx.LastGlobal())
	if label[0] != '.' {
		*ctx.LastGlobal() = label
	}
	sym := ctx.Symbols().NewSymbol(qname)
	if ctx.Pass() == 1 {
		if sym.Attr == 0 {
			sym.Attr = symtab.Forwd | symtab.Val
			sym.Value = ctx.PC()
		}
	} else {
		sym.Attr = symtab.Val
		if sym.Value != ctx.PC() {
			ctx.Error(errs.Multiply)
		}
	}
}

func handleDB(ctx Context) {
	DefineLabel(ctx)
	for {
		tok, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		if tok.Kind == token.Str {
			for i := 0; i < len(tok.Text); i++ {
				ctx.Emit(tok.Text[i])
			}
		} else {
			ctx.Lexer().Unlex()
			r, err := expr.Eval(ctx.Lexer())
			if err != nil {
				ctx.Error(err.Code)
				return
			}
			v := r.Value & 0xffff
			if v > 0xff && v < 0xff80 {
				ctx.Error(errs.Value)
				v = 0
			}
			ctx.Emit(byte(v))
		}
		sep, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		if sep.Kind != token.Sep {
			ctx.Lexer().Unlex()
			return
		}
	}
}

func handleDS(ctx Context) {
	DefineLabel(ctx)
	for {
		tok, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		if tok.Kind == token.EOL {
			ctx.Lexer().Unlex()
			return
		}
		if tok.Kind != token.Str {
			ctx.Error(errs.Syntax)
			continue
		}
		for i := 0; i < len(tok.Text); i++ {
			ctx.Emit(tok.Text[i])
		}
	}
}

func handleDW(ctx Context) {
	DefineLabel(ctx)
	for {
		tok, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		var value uint32
		if tok.Kind == token.Sep {
			ctx.Emit(0)
			ctx.Emit(0)
			continue
		}
		ctx.Lexer().Unlex()
		r, err := expr.Eval(ctx.Lexer())
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		value = r.Value
		ctx.Emit(byte(value))
		ctx.Emit(byte(value >> 8))

		sep, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		if sep.Kind != token.Sep {
			ctx.Lexer().Unlex()
			return
		}
	}
}

func handleElse(ctx Context) {
	ctx.SetListHex(false)
	newState, ok := ctx.IfToggleTop()
	if !ok {
		ctx.Error(errs.IfImb)
		return
	}
	ctx.SetOff(!newState)
}

func handleEndi(ctx Context) {
	ctx.SetListHex(false)
	parentState, ok := ctx.IfPop()
	if !ok {
		ctx.Error(errs.IfImb)
		return
	}
	ctx.SetOff(!parentState)
}

func handleEnd(ctx Context) {
	DefineLabel(ctx)
	if ctx.FileDepth() > 1 {
		ctx.SetListHex(false)
		ctx.Error(errs.Statement)
		return
	}
	ctx.SetDone(true)
	ctx.SetEject(true)
	if ctx.IfDepth() > 0 {
		ctx.Error(errs.IfImb)
	}
}

func handleEqu(ctx Context) {
	label := ctx.Label()
	if label == "" {
		ctx.Error(errs.Label)
		return
	}
	qname := symtab.Qualify(label, *ctx.LastGlobal())
	if label[0] != '.' {
		*ctx.LastGlobal() = label
	}
	if ctx.Pass() == 1 {
		sym := ctx.Symbols().NewSymbol(qname)
		redefined := sym.Attr != 0
		if !redefined {
			sym.Attr = symtab.Forwd | symtab.Val
		}
		r, err := expr.Eval(ctx.Lexer())
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		switch {
		case redefined:
			ctx.Error(errs.Multiply)
		case !r.Forward:
			sym.Value = uint16(r.Value)
		}
		return
	}
	sym := ctx.Symbols().FindSymbol(qname)
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
		return
	}
	if sym == nil {
		ctx.Error(errs.Phase)
		return
	}
	sym.Attr = symtab.Val
	if r.Forward {
		ctx.Error(errs.Phase)
		return
	}
	if sym.Value != uint16(r.Value) {
		ctx.Error(errs.Multiply)
	}
}

func handleSet(ctx Context) {
	label := ctx.Label()
	if label == "" {
		ctx.Error(errs.Label)
		return
	}
	qname := symtab.Qualify(label, *ctx.LastGlobal())
	if label[0] != '.' {
		*ctx.LastGlobal() = label
	}
	if ctx.Pass() == 1 {
		sym := ctx.Symbols().NewSymbol(qname)
		redefinable := sym.Attr == 0 || sym.Attr&symtab.Soft != 0
		if redefinable {
			sym.Attr = symtab.Forwd | symtab.Soft | symtab.Val
		}
		r, err := expr.Eval(ctx.Lexer())
		if err != nil {
			ctx.Error(err.Code)
			return
		}
		switch {
		case !redefinable:
			ctx.Error(errs.Multiply)
		case !r.Forward:
			sym.Value = uint16(r.Value)
		}
		return
	}
	sym := ctx.Symbols().FindSymbol(qname)
	if sym == nil {
		if _, err := expr.Eval(ctx.Lexer()); err != nil {
			ctx.Error(err.Code)
		}
		ctx.Error(errs.Phase)
		return
	}
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
		return
	}
	switch {
	case r.Forward:
		ctx.Error(errs.Phase)
	case sym.Attr&symtab.Soft != 0:
		sym.Attr = symtab.Soft | symtab.Val
		sym.Value = uint16(r.Value)
	default:
		ctx.Error(errs.Multiply)
	}
}

func handleExp(ctx Context) {
	DefineLabel(ctx)
	if ctx.Pass() != 2 {
		return
	}
	tok, err := ctx.Lexer().Lex()
	if err != nil {
		ctx.Error(err.Code)
		return
	}
	if tok.Kind != token.Val {
		ctx.Lexer().Unlex()
		return
	}
	qname := symtab.Qualify(tok.Text, *ctx.LastGlobal())
	sym := ctx.Symbols().FindSymbol(qname)
	if sym == nil {
		ctx.Error(errs.Value)
		return
	}
	if exportErr := ctx.ExportSymbol(sym.Name); exportErr != nil {
		ctx.Error(errs.Value)
	}
}

func handleIf(ctx Context) *errs.Fatal {
	if !ctx.IfPush() {
		return &errs.Fatal{Msg: "IF nesting too deep"}
	}
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
	}
	cond := r.Value != 0
	if r.Forward {
		ctx.Error(errs.Phase)
		cond = true
	}
	if ctx.Off() {
		ctx.SetListHex(false)
		ctx.IfSetTop(false)
	} else {
		ctx.IfSetTop(cond)
		if !cond {
			ctx.SetOff(true)
		}
	}
	return nil
}

func handleIncB(ctx Context) {
	DefineLabel(ctx)
	tok, err := ctx.Lexer().Lex()
	if err != nil {
		ctx.Error(err.Code)
		return
	}
	if tok.Kind != token.Str {
		ctx.Error(errs.Syntax)
		return
	}
	data, ioErr := ctx.IncludeBinary(tok.Text)
	if ioErr != nil {
		ctx.Error(errs.Value)
		return
	}
	for _, b := range data {
		ctx.Emit(b)
	}
}

func handleIncL(ctx Context) *errs.Fatal {
	DefineLabel(ctx)
	ctx.SetListHex(false)
	tok, err := ctx.Lexer().Lex()
	if err != nil {
		ctx.Error(err.Code)
		return nil
	}
	if tok.Kind != token.Str {
		ctx.Error(errs.Syntax)
		return nil
	}
	if ioErr := ctx.Include(tok.Text); ioErr != nil {
		if errors.Is(ioErr, ErrIncludeOverflow) {
			return &errs.Fatal{Msg: "include file stack overflow"}
		}
		ctx.Error(errs.Value)
	}
	return nil
}

func handleMsg(ctx Context) {
	DefineLabel(ctx)
	if ctx.Pass() != 2 {
		return
	}
	var sb strings.Builder
	for {
		tok, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			break
		}
		if tok.Kind == token.Str {
			sb.WriteString(tok.Text)
		} else {
			ctx.Lexer().Unlex()
			r, err := expr.Eval(ctx.Lexer())
			if err != nil {
				ctx.Error(err.Code)
				break
			}
			sb.WriteString(strconv.FormatUint(uint64(r.Value), 10))
		}
		sep, err := ctx.Lexer().Lex()
		if err != nil {
			ctx.Error(err.Code)
			break
		}
		if sep.Kind != token.Sep {
			ctx.Lexer().Unlex()
			break
		}
	}
	ctx.WriteMsg(sb.String())
}

func handleAlign(ctx Context) {
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
	}
	if r.Forward {
		ctx.Error(errs.Phase)
	} else {
		n := uint16(r.Value)
		var pad uint16
		if n != 0 {
			if rem := ctx.PC() % n; rem != 0 {
				pad = n - rem
			}
		}
		if ctx.Pass() == 2 {
			ctx.PadBinary(pad)
		}
		ctx.SetPC(ctx.PC() + pad)
		ctx.SetAddress(ctx.PC())
	}
	DefineLabel(ctx)
}

func handleBase(ctx Context) {
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
	}
	if r.Forward {
		ctx.Error(errs.Phase)
	} else {
		ctx.SetPC(uint16(r.Value))
		ctx.SetAddress(uint16(r.Value))
	}
	DefineLabel(ctx)
}

func handleOrg(ctx Context) {
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
	}
	if r.Forward {
		ctx.Error(errs.Phase)
	} else {
		target := uint16(r.Value)
		if ctx.Pass() == 2 && ctx.PC() != 0 {
			ctx.PadBinary(target - ctx.PC())
		}
		ctx.SetPC(target)
		ctx.SetAddress(target)
	}
	DefineLabel(ctx)
}

func handlePage(ctx Context) {
	ctx.SetListHex(false)
	DefineLabel(ctx)
	tok, err := ctx.Lexer().Lex()
	if err != nil {
		ctx.Error(err.Code)
		ctx.SetEject(true)
		return
	}
	if tok.Kind != token.EOL {
		ctx.Lexer().Unlex()
		r, err := expr.Eval(ctx.Lexer())
		if err != nil {
			ctx.Error(err.Code)
		}
		n := int(r.Value)
		if n > 0 && n < 3 {
			n = 0
			ctx.Error(errs.Value)
		}
		ctx.SetPageLen(n)
	} else {
		ctx.Lexer().Unlex()
	}
	ctx.SetEject(true)
}

func handleRmb(ctx Context) {
	DefineLabel(ctx)
	r, err := expr.Eval(ctx.Lexer())
	if err != nil {
		ctx.Error(err.Code)
	}
	if r.Forward {
		ctx.Error(errs.Phase)
		return
	}
	n := uint16(r.Value)
	if ctx.Pass() == 2 {
		ctx.PadBinary(n)
	}
	ctx.SetPC(ctx.PC() + n)
}

func handleTitl(ctx Context) {
	ctx.SetListHex(false)
	DefineLabel(ctx)
	tok, err := ctx.Lexer().Lex()
	if err != nil {
		ctx.Error(err.Code)
		return
	}
	switch {
	case tok.Kind == token.EOL:
		ctx.SetTitle("")
	case tok.Kind != token.Str:
		ctx.Error(errs.Syntax)
	default:
		ctx.SetTitle(tok.Text)
	}
}
