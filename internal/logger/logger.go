// Package logger builds the zerolog logger used for diagnostics.
// User-facing progress stays on stdout; diagnostics go to the writer given
// here, normally stderr.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human-readable logger writing to w. Debug output is only
// emitted when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
