// Package logging provides the zerolog constructors shared across the
// module.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a structured logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole builds a human-readable logger on stdout.
func NewConsole(level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stdout}, level)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
