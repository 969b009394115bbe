// Copyright © 2024 The ELPS authors

package token

import (
	"bytes"
	"sort"
)

// LineIndex converts byte offsets in a source text to line and column
// numbers.
type LineIndex struct {
	src    []byte
	starts []int // byte offset of the first byte of each line
}

// NewLineIndex indexes the lines of src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineCount returns the number of lines in the source.  A trailing newline
// starts an empty final line.
func (idx *LineIndex) LineCount() int {
	return len(idx.starts)
}

// Position returns the 1-based line and byte column of offset.  Offsets
// beyond the end of the source are clamped to the end.
func (idx *LineIndex) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.src) {
		offset = len(idx.src)
	}
	i := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset }) - 1
	return i + 1, offset - idx.starts[i] + 1
}

// Line returns the text of the 1-based line n without its line terminator.
func (idx *LineIndex) Line(n int) string {
	if n < 1 || n > len(idx.starts) {
		return ""
	}
	start := idx.starts[n-1]
	end := len(idx.src)
	if n < len(idx.starts) {
		end = idx.starts[n] - 1
	}
	return string(bytes.TrimSuffix(idx.src[start:end], []byte("\r")))
}

// Location returns a Location for offset in the named file.
func (idx *LineIndex) Location(file string, offset int) *Location {
	line, col := idx.Position(offset)
	return &Location{
		File: file,
		Pos:  offset,
		Line: line,
		Col:  col,
	}
}
