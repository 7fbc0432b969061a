/*
 * m6502asm - Opcode encoder.
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

// Package encoder turns a decoded opcode and its Args into machine bytes
// (spec §4.G), one function per addressing-mode family. Every family
// ultimately agrees on the same emission order: obj[0] is the opcode,
// obj[1] the low operand byte, obj[2] the high operand byte, with Bytes
// selecting how many of the three the caller commits.
package encoder

import (
	"strings"

	"github.com/rcornwell/m6502asm/internal/argmode"
	"github.com/rcornwell/m6502asm/internal/errs"
	"github.com/rcornwell/m6502asm/internal/opctab"
)

// Result is one line's emitted bytes.
type Result struct {
	Obj   [3]byte
	Bytes int
}

func emit(opcode byte, operand uint32, bytes int) Result {
	return Result{
		Obj:   [3]byte{opcode, byte(operand), byte(operand >> 8)},
		Bytes: bytes,
	}
}

func zeroPageSelect(opcode byte, value uint32, forceabs, forward bool) (byte, int) {
	if !forceabs && !forward && value <= 0xff {
		return opcode, 2
	}
	return opcode + 0x08, 3
}

// Encode dispatches on op.Family. pc is the address of the current
// instruction, needed only by RELBR to compute its displacement. name is
// the mnemonic text, needed to distinguish LDX/LDY and STX/STY indexing
// rules within their shared families.
func Encode(name string, op opctab.Opcode, a argmode.Args, forceabs bool, pc uint16) (Result, *errs.Error) {
	base := op.Base
	switch op.Family {
	case opctab.InhOp:
		return encodeInh(base, a)
	case opctab.RelBr:
		return encodeRel(base, a, pc)
	case opctab.Jump:
		return encodeJump(base, a)
	case opctab.Call:
		return encodeCall(base, a)
	case opctab.LogOp:
		return encodeLog(base, a, forceabs)
	case opctab.IncOp:
		return encodeIncBody(base, a, forceabs)
	case opctab.CpXY:
		return encodeCpXY(base, a, forceabs)
	case opctab.BitOp:
		return encodeBitBody(base, a, forceabs)
	case opctab.LdXY:
		return encodeLdXY(name, base, a, forceabs)
	case opctab.StXY:
		return encodeStXY(name, base, a, forceabs)
	case opctab.TwoOp:
		return encodeTwoOp(name, base, a, forceabs)
	default:
		return Result{Bytes: 3}, &errs.Error{Code: errs.Opcode}
	}
}

func encodeInh(base byte, a argmode.Args) (Result, *errs.Error) {
	if a.Attr != 0 {
		return emit(base, 0, 1), &errs.Error{Code: errs.TooMany}
	}
	return emit(base, 0, 1), nil
}

func encodeRel(base byte, a argmode.Args, pc uint16) (Result, *errs.Error) {
	if a.Attr != argmode.Num {
		return emit(base, 0, 2), &errs.Error{Code: errs.Addr}
	}
	disp := int32(a.Value) - int32(pc) - 2
	operand := uint32(disp) & 0xffff
	if operand > 0x7f && operand < 0xff80 {
		return emit(base, 0xfffe, 2), &errs.Error{Code: errs.Branch}
	}
	return emit(base, operand, 2), nil
}

func encodeJump(base byte, a argmode.Args) (Result, *errs.Error) {
	if a.Attr == argmode.Ind|argmode.Num {
		return emit(base+0x20, a.Value, 3), nil
	}
	return encodeCall(base, a)
}

func encodeCall(base byte, a argmode.Args) (Result, *errs.Error) {
	if a.Attr != argmode.Num {
		return emit(base, 0, 3), &errs.Error{Code: errs.Addr}
	}
	return emit(base, a.Value, 3), nil
}

func encodeLog(base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr&argmode.A == 0 {
		return encodeIncBody(base, a, forceabs)
	}
	return emit(base+0x04, 0, 1), nil
}

func encodeIncBody(base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr&^argmode.X != argmode.Num {
		return emit(base, 0, 3), &errs.Error{Code: errs.Addr}
	}
	opcode := base
	if a.Attr&argmode.X != 0 {
		opcode += 0x10
	}
	opcode, bytes := zeroPageSelect(opcode, a.Value, forceabs, a.Forward)
	return emit(opcode, a.Value, bytes), nil
}

func encodeBitBody(opcode byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr != argmode.Num {
		return emit(opcode, 0, 3), &errs.Error{Code: errs.Addr}
	}
	opcode, bytes := zeroPageSelect(opcode, a.Value, forceabs, a.Forward)
	return emit(opcode, a.Value, bytes), nil
}

func doImmediate(opcode byte, value uint32) (Result, *errs.Error) {
	v := value & 0xffff
	if v > 0xff && v < 0xff80 {
		return emit(opcode, 0, 2), &errs.Error{Code: errs.Value}
	}
	return emit(opcode, v, 2), nil
}

func encodeCpXY(base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr&argmode.Imm != 0 {
		return doImmediate(base, a.Value)
	}
	return encodeBitBody(base+0x04, a, forceabs)
}

func encodeLdXY(name string, base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr&argmode.Imm == 0 {
		attr := a.Attr
		if strings.EqualFold(name, "LDX") && attr&argmode.Y != 0 {
			attr ^= argmode.X | argmode.Y
		}
		return encodeIncBody(base+0x04, argmode.Args{Attr: attr, Value: a.Value, Forward: a.Forward}, forceabs)
	}
	return doImmediate(base, a.Value)
}

func encodeStXY(name string, base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	var mask argmode.Attr
	if strings.EqualFold(name, "STX") {
		mask = argmode.Y
	} else {
		mask = argmode.X
	}
	if a.Attr&^mask != argmode.Num {
		return emit(base, 0, 3), &errs.Error{Code: errs.Addr}
	}
	if a.Attr&(argmode.X|argmode.Y) != 0 {
		if a.Value > 0xff {
			return emit(base+0x10, 0, 2), &errs.Error{Code: errs.Value}
		}
		return emit(base+0x10, a.Value, 2), nil
	}
	return encodeBitBody(base, a, forceabs)
}

func encodeTwoOp(name string, base byte, a argmode.Args, forceabs bool) (Result, *errs.Error) {
	if a.Attr&argmode.Num == 0 {
		return emit(base, 0, 3), &errs.Error{Code: errs.Addr}
	}
	if a.Attr&argmode.Imm != 0 {
		if strings.EqualFold(name, "STA") {
			return emit(base, 0, 3), &errs.Error{Code: errs.Addr}
		}
		return doImmediate(base+0x08, a.Value)
	}
	if a.Attr&argmode.Ind != 0 {
		opcode := base
		switch {
		case a.Attr&argmode.Y != 0:
			opcode += 0x10
		case a.Attr&argmode.X == 0:
			return emit(base, 0, 2), &errs.Error{Code: errs.Addr}
		}
		if a.Value > 0xff {
			return emit(opcode, 0, 2), &errs.Error{Code: errs.Value}
		}
		return emit(opcode, a.Value, 2), nil
	}
	if a.Attr&argmode.Y != 0 {
		return emit(base+0x18, a.Value, 3), nil
	}
	opcode := base + 0x04
	if a.Attr&argmode.X != 0 {
		opcode += 0x10
	}
	opcode, bytes := zeroPageSelect(opcode, a.Value, forceabs, a.Forward)
	return emit(opcode, a.Value, bytes), nil
}
