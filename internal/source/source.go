/*
 * m6502asm - Source input stack and line reader.
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

// Package source implements the character-level input stack described in
// spec §4.A: popc/pushc/newline over a bounded stack of nested source
// files, with the raw line text preserved for the listing.
package source

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// Files is the bound on simultaneously open source frames (top-level file
// plus nested INCL includes). Matches spec §3's FILES constant.
const Files = 16

type frame struct {
	file       *os.File
	reader     *bufio.Reader
	path       string
	lineNumber int
}

// Source is the input stack. Frame 0 is the top-level file; Include pushes
// further frames for nested INCL directives.
type Source struct {
	stack  []*frame
	line   string
	pos    int
	pushed byte
	hasPB  bool
}

// Open creates a Source over the top-level file at path. Failure to open
// the top-level source is fatal per spec §7.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := &Source{}
	s.stack = append(s.stack, &frame{file: f, reader: bufio.NewReader(f), path: path})
	return s, nil
}

// Include pushes a new frame for an INCL directive. Returns an error if
// the file can't be opened (the caller turns this into error code 'V',
// matching the original's "no include file" handling) or if the stack is
// already at its bound (the caller turns this into a fatal FLOFLOW).
func (s *Source) Include(path string) error {
	if len(s.stack) >= Files {
		return errors.New("include stack overflow")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	s.stack = append(s.stack, &frame{file: f, reader: bufio.NewReader(f), path: path})
	return nil
}

// Depth reports how many frames are currently on the stack. A value
// greater than one means assembly is inside at least one INCL.
func (s *Source) Depth() int {
	return len(s.stack)
}

func (s *Source) top() *frame {
	return s.stack[len(s.stack)-1]
}

// Path is the current top frame's source file path.
func (s *Source) Path() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.top().path
}

// LineNumber is the current top frame's 1-based line number.
func (s *Source) LineNumber() int {
	if len(s.stack) == 0 {
		return 0
	}
	return s.top().lineNumber
}

// Line returns the raw text of the current line, verbatim, for the
// listing.
func (s *Source) Line() string {
	return s.line
}

// Newline refills the line buffer from the current top-of-stack file. On
// EOF of a nested file it pops the file stack and retries on the new top.
// It returns true only when the bottom (top-level) file is exhausted; that
// frame stays open so Rewind can seek it for the next pass.
func (s *Source) Newline() bool {
	s.pos = 0
	s.hasPB = false
	for {
		if len(s.stack) == 0 {
			return true
		}
		fr := s.top()
		text, err := fr.reader.ReadString('\n')
		if text != "" {
			fr.lineNumber++
			if text[len(text)-1] != '\n' {
				text += "\n"
			}
			s.line = text
			return false
		}
		if err != nil {
			if len(s.stack) == 1 {
				return true
			}
			fr.file.Close()
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
	}
}

// Popc returns the next character from the current line buffer. Control
// characters other than '\t' and '\n' are discarded; '\t' becomes a
// space; ';' begins a comment and is mapped to '\n'. End of buffer also
// yields '\n'.
func (s *Source) Popc() byte {
	if s.hasPB {
		s.hasPB = false
		return s.pushed
	}
	for {
		if s.pos >= len(s.line) {
			return '\n'
		}
		c := s.line[s.pos]
		s.pos++
		switch {
		case c == ';':
			return '\n'
		case c == '\t':
			return ' '
		case c == '\n':
			return '\n'
		case c < 0x20:
			continue // control character, discarded
		default:
			return c
		}
	}
}

// Pushc pushes one character back onto the input stream. Only one level
// of pushback is supported.
func (s *Source) Pushc(c byte) {
	s.pushed = c
	s.hasPB = true
}

// Rewind seeks the bottom (top-level) frame back to its start and drops
// any nested include frames, for the start of a new pass.
func (s *Source) Rewind() error {
	for len(s.stack) > 1 {
		s.top().file.Close()
		s.stack = s.stack[:len(s.stack)-1]
	}
	if len(s.stack) == 0 {
		return io.EOF
	}
	fr := s.stack[0]
	if _, err := fr.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	fr.reader = bufio.NewReader(fr.file)
	fr.lineNumber = 0
	s.pos = 0
	s.hasPB = false
	s.line = ""
	return nil
}

// Close releases every open frame.
func (s *Source) Close() {
	for _, fr := range s.stack {
		fr.file.Close()
	}
	s.stack = nil
}
