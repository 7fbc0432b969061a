/*
 * m6502asm - CLI argument parsing test routines.
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

package main

import (
	"reflect"
	"testing"
)

func TestParseArgsFlagsWithSpace(t *testing.T) {
	opts, src, warnings, help := parseArgs([]string{"-o", "out.bin", "-l", "out.lst", "-e", "out.exp", "prog.asm"})
	if help {
		t.Fatalf("unexpected help request")
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := cliOpts{binPath: "out.bin", lstPath: "out.lst", expPath: "out.exp"}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("got %+v, want %+v", opts, want)
	}
	if src != "prog.asm" {
		t.Errorf("src = %q, want prog.asm", src)
	}
}

func TestParseArgsFlagsWithoutSpace(t *testing.T) {
	opts, src, warnings, _ := parseArgs([]string{"-oout.bin", "prog.asm"})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if opts.binPath != "out.bin" {
		t.Errorf("binPath = %q, want out.bin", opts.binPath)
	}
	if src != "prog.asm" {
		t.Errorf("src = %q, want prog.asm", src)
	}
}

func TestParseArgsMissingValueWarns(t *testing.T) {
	_, _, warnings, _ := parseArgs([]string{"prog.asm", "-o"})
	if !reflect.DeepEqual(warnings, []string{"NOHEX"}) {
		t.Errorf("warnings = %v, want [NOHEX]", warnings)
	}
}

func TestParseArgsSecondPositionalWarnsTwoAsm(t *testing.T) {
	_, src, warnings, _ := parseArgs([]string{"prog.asm", "other.asm"})
	if src != "prog.asm" {
		t.Errorf("src = %q, want prog.asm", src)
	}
	if !reflect.DeepEqual(warnings, []string{"TWOASM"}) {
		t.Errorf("warnings = %v, want [TWOASM]", warnings)
	}
}

func TestParseArgsUnknownFlagWarnsBadOpt(t *testing.T) {
	_, _, warnings, _ := parseArgs([]string{"-z", "prog.asm"})
	if !reflect.DeepEqual(warnings, []string{"BADOPT"}) {
		t.Errorf("warnings = %v, want [BADOPT]", warnings)
	}
}

func TestParseArgsHelp(t *testing.T) {
	_, _, _, help := parseArgs([]string{"-h"})
	if !help {
		t.Errorf("expected help to be requested")
	}
}
