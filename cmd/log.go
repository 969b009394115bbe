// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger returns the logger for evaluation traces.  Unless enabled the
// logger discards records below slog.LevelWarn, which keeps the evaluator
// from building debug records at all.
func newLogger(w io.Writer, enabled bool, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if !enabled {
		opts.Level = slog.LevelWarn
	}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}
}
