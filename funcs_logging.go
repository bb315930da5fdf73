package main

import (
	"io"
	"log/slog"
)

// newLogger creates the logger of a run. Debug records show up in verbose mode only.
// Findings are never logged, they are rendered to the output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
