/*
 * m6502asm - Opcode and operator tables.
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

// Package opctab holds the assembler's two static, case-insensitive
// tables (spec §4.D): the 6502 mnemonic/pseudo-op table and the
// word-named operator/register table. Both are plain Go maps keyed by
// upper-cased name; the original's sorted-array binary search is an
// implementation detail of a language without map literals, not a
// property this port needs to preserve.
package opctab

import (
	"strings"

	"github.com/rcornwell/m6502asm/internal/token"
)

// Family selects the encoding rules an opcode follows (spec §4.D, §4.G).
type Family int

const (
	TwoOp Family = iota // ADC AND CMP EOR LDA ORA SBC STA
	LdXY                // LDX LDY
	StXY                // STX STY
	CpXY                // CPX CPY
	LogOp               // ASL LSR ROL ROR (+ accumulator forms)
	IncOp               // DEC INC
	InhOp               // implied, no operand
	Jump                // JMP
	Call                // JSR
	RelBr               // branches
	BitOp               // BIT
	Pseudo              // directive; Value identifies which one
)

// Pseudo-op identifiers, used as Opcode.Value when Family == Pseudo.
const (
	PDB Value = iota
	PDS
	PDW
	PElse
	PEnd
	PEndi
	PEqu
	PExp
	PIf
	PIncB
	PIncL
	PMsg
	PAlign
	PBase
	POrg
	PPage
	PRmb
	PSet
	PTitl
)

// Value is the opcode's base byte, or (for Family == Pseudo) the pseudo
// identifier above.
type Value int

// Opcode is one opcode-table entry (spec §3 "Opcode table entry").
type Opcode struct {
	Family Family
	Base   byte // base machine opcode; unused when Family == Pseudo
	Value  Value
	IsIf   bool // bypasses off-suppression: IF, ELSE, ENDI
}

// LOGOP mnemonics (ASL/LSR/ROL/ROR) carry their memory-form base opcode
// here; the accumulator form ("ASL A") is handled through argmode's ARGA
// bit in the encoder (spec §4.G). The original also carries ASLA/LSRA/
// ROLA/RORA as separate INHOP aliases for the same accumulator forms;
// those are kept below too.
var table = map[string]Opcode{
	"ADC": {Family: TwoOp, Base: 0x61},
	"AND": {Family: TwoOp, Base: 0x21},
	"ASL": {Family: LogOp, Base: 0x06},
	"ASLA": {Family: InhOp, Base: 0x0a},
	"BCC": {Family: RelBr, Base: 0x90},
	"BCS": {Family: RelBr, Base: 0xb0},
	"BEQ": {Family: RelBr, Base: 0xf0},
	"BIT": {Family: BitOp, Base: 0x24},
	"BMI": {Family: RelBr, Base: 0x30},
	"BNE": {Family: RelBr, Base: 0xd0},
	"BPL": {Family: RelBr, Base: 0x10},
	"BRK": {Family: InhOp, Base: 0x00},
	"BVC": {Family: RelBr, Base: 0x50},
	"BVS": {Family: RelBr, Base: 0x70},
	"CLC": {Family: InhOp, Base: 0x18},
	"CLD": {Family: InhOp, Base: 0xd8},
	"CLI": {Family: InhOp, Base: 0x58},
	"CLV": {Family: InhOp, Base: 0xb8},
	"CMP": {Family: TwoOp, Base: 0xc1},
	"CPX": {Family: CpXY, Base: 0xe0},
	"CPY": {Family: CpXY, Base: 0xc0},
	"DEC": {Family: IncOp, Base: 0xc6},
	"DEX": {Family: InhOp, Base: 0xca},
	"DEY": {Family: InhOp, Base: 0x88},
	"EOR": {Family: TwoOp, Base: 0x41},
	"INC": {Family: IncOp, Base: 0xe6},
	"INX": {Family: InhOp, Base: 0xe8},
	"INY": {Family: InhOp, Base: 0xc8},
	"JMP": {Family: Jump, Base: 0x4c},
	"JSR": {Family: Call, Base: 0x20},
	"LDA": {Family: TwoOp, Base: 0xa1},
	"LDX": {Family: LdXY, Base: 0xa2},
	"LDY": {Family: LdXY, Base: 0xa0},
	"LSR": {Family: LogOp, Base: 0x46},
	"LSRA": {Family: InhOp, Base: 0x4a},
	"NOP": {Family: InhOp, Base: 0xea},
	"ORA": {Family: TwoOp, Base: 0x01},
	"PHA": {Family: InhOp, Base: 0x48},
	"PHP": {Family: InhOp, Base: 0x08},
	"PLA": {Family: InhOp, Base: 0x68},
	"PLP": {Family: InhOp, Base: 0x28},
	"ROL": {Family: LogOp, Base: 0x26},
	"ROLA": {Family: InhOp, Base: 0x2a},
	"ROR": {Family: LogOp, Base: 0x66},
	"RORA": {Family: InhOp, Base: 0x6a},
	"RTI": {Family: InhOp, Base: 0x40},
	"RTS": {Family: InhOp, Base: 0x60},
	"SBC": {Family: TwoOp, Base: 0xe1},
	"SEC": {Family: InhOp, Base: 0x38},
	"SED": {Family: InhOp, Base: 0xf8},
	"SEI": {Family: InhOp, Base: 0x78},
	"STA": {Family: TwoOp, Base: 0x81},
	"STX": {Family: StXY, Base: 0x86},
	"STY": {Family: StXY, Base: 0x84},
	"TAX": {Family: InhOp, Base: 0xaa},
	"TAY": {Family: InhOp, Base: 0xa8},
	"TSX": {Family: InhOp, Base: 0xba},
	"TXA": {Family: InhOp, Base: 0x8a},
	"TXS": {Family: InhOp, Base: 0x9a},
	"TYA": {Family: InhOp, Base: 0x98},

	"ALIGN": {Family: Pseudo, Value: PAlign},
	"BASE":  {Family: Pseudo, Value: PBase},
	"DB":    {Family: Pseudo, Value: PDB},
	"DS":    {Family: Pseudo, Value: PDS},
	"DW":    {Family: Pseudo, Value: PDW},
	"ELSE":  {Family: Pseudo, Value: PElse, IsIf: true},
	"END":   {Family: Pseudo, Value: PEnd},
	"ENDI":  {Family: Pseudo, Value: PEndi, IsIf: true},
	"EQU":   {Family: Pseudo, Value: PEqu},
	"EXP":   {Family: Pseudo, Value: PExp},
	"IF":    {Family: Pseudo, Value: PIf, IsIf: true},
	"INCB":  {Family: Pseudo, Value: PIncB},
	"INCL":  {Family: Pseudo, Value: PIncL},
	"MSG":   {Family: Pseudo, Value: PMsg},
	"ORG":   {Family: Pseudo, Value: POrg},
	"PAGE":  {Family: Pseudo, Value: PPage},
	"RMB":   {Family: Pseudo, Value: PRmb},
	"SET":   {Family: Pseudo, Value: PSet},
	"TITL":  {Family: Pseudo, Value: PTitl},
}

// Find looks up a mnemonic or pseudo-op case-insensitively.
func Find(name string) (Opcode, bool) {
	op, ok := table[strings.ToUpper(name)]
	return op, ok
}

// Operator is one word-operator or register table entry (spec §4.D).
type Operator struct {
	Kind  token.Kind // Reg or Opr
	Prec  token.Prec
	Arity token.Arity
	Op    byte
}

var operators = map[string]Operator{
	"A":    {Kind: token.Reg, Op: 'A'},
	"X":    {Kind: token.Reg, Op: 'X'},
	"Y":    {Kind: token.Reg, Op: 'Y'},
	"AND":  {Kind: token.Opr, Prec: token.Log1, Arity: token.Binary, Op: token.OpAnd},
	"OR":   {Kind: token.Opr, Prec: token.Log2, Arity: token.Binary, Op: token.OpOr},
	"XOR":  {Kind: token.Opr, Prec: token.Log2, Arity: token.Binary, Op: token.OpXor},
	"NOT":  {Kind: token.Opr, Prec: token.Uop2, Arity: token.Unary, Op: token.OpNot},
	"SHL":  {Kind: token.Opr, Prec: token.Mult, Arity: token.Binary, Op: token.OpShl},
	"SHR":  {Kind: token.Opr, Prec: token.Mult, Arity: token.Binary, Op: token.OpShr},
	"MOD":  {Kind: token.Opr, Prec: token.Mult, Arity: token.Binary, Op: token.OpMod},
	"EQ":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpEq},
	"NE":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpNe},
	"LT":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpLt},
	"LE":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpLe},
	"GT":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpGt},
	"GE":   {Kind: token.Opr, Prec: token.Relat, Arity: token.Binary, Op: token.OpGe},
	"HIGH": {Kind: token.Opr, Prec: token.Uop3, Arity: token.Unary, Op: token.OpHigh},
	"LOW":  {Kind: token.Opr, Prec: token.Uop3, Arity: token.Unary, Op: token.OpLow},
}

// FindOperator looks up a word operator or register name
// case-insensitively.
func FindOperator(name string) (Operator, bool) {
	op, ok := operators[strings.ToUpper(name)]
	return op, ok
}
