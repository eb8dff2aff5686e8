// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so that packages depend on our type instead of the global slog state.
type Logger struct {
	*slog.Logger
}

// New returns a Logger that writes text records to stderr at the given level.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger that writes text records to output at the given level.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog attribute for the given error.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
