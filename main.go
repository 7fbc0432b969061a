/*
 * m6502asm - Main process.
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

// m6502asm is a two-pass cross-assembler for the MOS 6502 (spec §1). This
// file is the CLI entry point (spec §6, SPEC_FULL.md §5): it parses flags,
// opens the optional output sinks, runs the assembler, and reports the
// error count as the process exit status.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/m6502asm/internal/assembler"
	"github.com/rcornwell/m6502asm/internal/sink"
	logger "github.com/rcornwell/m6502asm/util/logger"
)

var Logger *slog.Logger

// registerFlags declares the flags getopt.Usage() documents for -h. It's
// guarded by sync.Once because getopt's flag set is process-global and a
// second registration would panic — parseArgs itself does the real
// parsing by hand (see its doc comment) and can safely run more than once.
var registerFlags = sync.OnceFunc(func() {
	getopt.StringLong("output", 'o', "", "Binary output file")
	getopt.StringLong("listing", 'l', "", "Listing file")
	getopt.StringLong("export", 'e', "", "Symbol export file")
	getopt.StringLong("log", 0, "", "Log file")
	getopt.BoolLong("help", 'h', "Help")
})

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses argv, assembles the named source, and returns the process
// exit status: the number of recoverable errors (spec §6 "Exit code =
// number of error lines"). A malformed invocation or a fatal condition
// returns a nonzero status without an error count.
func run(argv []string) int {
	opts, srcPath, warnings, wantHelp := parseArgs(argv)

	if wantHelp {
		getopt.Usage()
		return 0
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	var logFile *os.File
	if opts.logPath != "" {
		logFile, _ = os.Create(opts.logPath)
	}
	debug := false
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(Logger)

	for _, w := range warnings {
		Logger.Warn(w)
	}
	if srcPath == "" {
		fmt.Fprintln(os.Stderr, "m6502asm: no source file specified")
		getopt.Usage()
		return 1
	}

	sinks := assembler.Sinks{}

	if opts.binPath != "" {
		bin, err := sink.OpenBinary(opts.binPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
			return 2
		}
		defer bin.Close()
		sinks.Binary = bin
	}
	if opts.lstPath != "" {
		lst, err := sink.OpenListing(opts.lstPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
			return 2
		}
		sinks.Listing = lst
	}
	if opts.expPath != "" {
		exp, err := sink.OpenExport(opts.expPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
			return 2
		}
		sinks.Export = exp
	}

	Logger.Info("assembly started", "source", srcPath)
	result, err := assembler.Assemble(srcPath, sinks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal Error -- %v\n", err)
		return 2
	}
	Logger.Info("assembly finished", "errors", result.Errors)
	return result.Errors
}

// cliOpts is the parsed result of the three output-file flags plus the
// supplemental --log flag (SPEC_FULL.md §5 footnote: spec's own -l collides
// with the house style's -l log-file convention, so the log file moves to
// the long-only --log).
type cliOpts struct {
	binPath string
	lstPath string
	expPath string
	logPath string
}

// parseArgs implements spec §6's CLI surface by hand rather than leaning
// on getopt's own argument-binding, because spec.md requires three
// behaviors getopt doesn't: a value-less flag is a warning (not a parse
// error), a second positional argument is a warning (not an error), and an
// unrecognized flag is a warning. getopt.Usage() below still documents the
// flags for -h. The final bool reports whether -h/--help was seen.
func parseArgs(argv []string) (cliOpts, string, []string, bool) {
	registerFlags()

	var opts cliOpts
	var warnings []string
	var srcPath string
	haveSrc := false

	valueFlag := func(name string) (label string, assign func(string)) {
		switch name {
		case "o":
			return "NOHEX", func(v string) { opts.binPath = v }
		case "l":
			return "NOLST", func(v string) { opts.lstPath = v }
		case "e":
			return "NOEXP", func(v string) { opts.expPath = v }
		case "log":
			return "", func(v string) { opts.logPath = v }
		}
		return "", nil
	}

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "-h" || arg == "--help":
			return opts, "", warnings, true
		case arg == "-o" || arg == "-l" || arg == "-e":
			name := arg[1:]
			label, assign := valueFlag(name)
			if i+1 >= len(argv) {
				warnings = append(warnings, label)
				i++
				continue
			}
			assign(argv[i+1])
			i += 2
		case strings.HasPrefix(arg, "-o") || strings.HasPrefix(arg, "-l") || strings.HasPrefix(arg, "-e"):
			name := arg[1:2]
			label, assign := valueFlag(name)
			val := arg[2:]
			if val == "" {
				warnings = append(warnings, label)
				i++
				continue
			}
			assign(val)
			i++
		case arg == "--log":
			_, assign := valueFlag("log")
			if i+1 >= len(argv) {
				i++
				continue
			}
			assign(argv[i+1])
			i += 2
		case strings.HasPrefix(arg, "--log="):
			_, assign := valueFlag("log")
			assign(strings.TrimPrefix(arg, "--log="))
			i++
		case strings.HasPrefix(arg, "-") && arg != "-":
			warnings = append(warnings, "BADOPT")
			i++
		default:
			if !haveSrc {
				srcPath = arg
				haveSrc = true
			} else {
				warnings = append(warnings, "TWOASM")
			}
			i++
		}
	}

	return opts, srcPath, warnings, false
}
