/*
 * m6502asm - Assembler error codes.
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

// Package errs defines the assembler's recoverable error codes and its
// fatal-error type. A recoverable error carries a single letter that ends
// up in column 0 of the listing and in the "path:line: X -- msg" stderr
// line (spec §6/§7); a fatal error aborts the process immediately.
package errs

import "strconv"

// Code is a single-letter recoverable error code.
type Code byte

const (
	Statement Code = '*' // illegal/missing statement
	Paren     Code = '('
	Quote     Code = '"'
	Addr      Code = 'A' // addressing mode
	Branch    Code = 'B' // branch out of range
	Digit     Code = 'D'
	Expr      Code = 'E'
	IfImb     Code = 'I' // IF/ENDI imbalance
	Label     Code = 'L'
	Multiply  Code = 'M' // multiply defined / phase mismatch
	Opcode    Code = 'O'
	Phase     Code = 'P'
	Register  Code = 'R'
	Syntax    Code = 'S'
	TooMany   Code = 'T'
	Undef     Code = 'U'
	Value     Code = 'V'
)

var descriptions = map[Code]string{
	Statement: "illegal or missing statement",
	Paren:     "unbalanced parentheses",
	Quote:     "unterminated string",
	Addr:      "invalid addressing mode",
	Branch:    "branch target out of range",
	Digit:     "invalid digit for radix",
	Expr:      "invalid expression",
	IfImb:     "unbalanced IF/ENDI",
	Label:     "invalid label",
	Multiply:  "multiply defined symbol",
	Opcode:    "unrecognized opcode",
	Phase:     "phasing error",
	Register:  "invalid register",
	Syntax:    "syntax error",
	TooMany:   "too many operands",
	Undef:     "undefined symbol",
	Value:     "value out of range",
}

// Description returns the human-readable text for a recoverable code, or
// "unknown error" if the code isn't one of the above (mirrors the
// original's "default" case in its stderr switch).
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error"
}

func (c Code) String() string {
	return string(rune(c))
}

// Error is a recoverable error tied to a source location. Only the first
// Error on a given line survives (spec §7); later ones are discarded by
// the driver, not by this type.
type Error struct {
	Code Code
	File string
	Line int
}

func (e *Error) Error() string {
	return e.File + ":" + strconv.Itoa(e.Line) + ": " + e.Code.String() + " -- " + e.Code.Description()
}

// Fatal is returned by the directive handlers for conditions that abort
// assembly immediately: IF nesting deeper than the conditional stack and
// include-stack overflow. Failures to open or write files are reported
// as plain errors by their callers.
type Fatal struct {
	Msg string
}

func (f *Fatal) Error() string {
	return "Fatal Error -- " + f.Msg
}
