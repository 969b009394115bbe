// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/jml/ast"
)

// Scanner facilitates construction of tokens from source text held in
// memory.  Token spans are byte offsets into the source.
type Scanner struct {
	file  string
	buf   []byte
	lines *LineIndex

	start int // start of the current token
	pos   int // index of c in buf
	next  int // index of the rune following c
	c     rune
	err   error
}

// NewScanner initializes and returns a new Scanner for src.
func NewScanner(file string, src []byte) *Scanner {
	return &Scanner{
		file:  file,
		buf:   src,
		lines: NewLineIndex(src),
	}
}

// ReadScanner reads all of r and returns a Scanner for its contents.
func ReadScanner(file string, r io.Reader) (*Scanner, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewScanner(file, src), nil
}

// Lines returns the line index of the scanned source.
func (s *Scanner) Lines() *LineIndex {
	return s.lines
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
		Span:   s.Span(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Span returns the byte range of the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Span() ast.Span {
	return ast.Span{Offset: s.start, Length: s.next - s.start}
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.  If an invalid
// utf-8 sequence or EOF prevents futher runes from being scanned Peek returns
// a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n <= 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// PeekN returns the nth rune following the current position without scanning
// it.  PeekN(1) returns the same rune as Peek.  PeekN returns zero if the
// input ends first.
func (s *Scanner) PeekN(n int) rune {
	var c rune
	i := s.next
	for ; n > 0; n-- {
		if i >= len(s.buf) {
			return 0
		}
		var size int
		c, size = utf8.DecodeRune(s.buf[i:])
		i += size
	}
	return c
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.buf) {
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n <= 1 {
		s.err = fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
		return s.err
	}
	s.c = c
	s.pos = s.next
	s.next += n
	return nil
}

// Err returns the encoding error that stopped the scanner, if any.
func (s *Scanner) Err() error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.Peek(); !ok && !s.EOF() {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	return nil
}

// EOF returns true when every byte of the source has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(r rune) bool { return '0' <= r && r <= '9' })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

// AcceptString accepts literal only if the entire literal is next in the
// input.  Unlike the other Accept methods nothing is scanned on failure.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(string(s.buf[s.next:min(len(s.buf), s.next+len(literal))]), literal) {
		return false
	}
	for range literal {
		if s.ScanRune() != nil {
			return false
		}
	}
	return true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return s.lines.Location(s.file, s.start)
}

// Loc returns a Location referencing the current scanner position, the last
// position of the current token.
func (s *Scanner) Loc() *Location {
	return s.lines.Location(s.file, s.pos)
}
