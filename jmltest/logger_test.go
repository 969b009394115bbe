// Copyright © 2024 The ELPS authors

package jmltest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingTB struct {
	testing.TB
	lines []string
}

func (tb *recordingTB) Log(args ...interface{}) {
	tb.lines = append(tb.lines, fmt.Sprint(args...))
}

func TestLogger(t *testing.T) {
	tb := &recordingTB{TB: t}
	log := NewLogger(tb)

	n, err := log.Write([]byte("total : 1\npartial"))
	assert.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, []string{"total : 1"}, tb.lines)

	_, err = log.Write([]byte(" line\na\nb\n"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"total : 1", "partial line", "a", "b"}, tb.lines)

	log.Flush()
	assert.Len(t, tb.lines, 4)
	_, _ = log.Write([]byte("tail"))
	log.Flush()
	assert.Equal(t, "tail", tb.lines[4])
}
