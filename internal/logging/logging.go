// Package logging builds the zerolog loggers threaded through the archive.
//
// There is no package-level logger: the CLI builds one per invocation and
// passes it down explicitly, and tests build one over a buffer.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options selects how diagnostics are presented.
type Options struct {
	// JSON emits one JSON object per event instead of console lines.
	JSON bool

	// Verbose lowers the threshold from Info to Debug.
	Verbose bool

	// Quiet raises the threshold to Warn.
	Quiet bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	}

	level := zerolog.InfoLevel
	switch {
	case opts.Verbose:
		level = zerolog.DebugLevel
	case opts.Quiet:
		level = zerolog.WarnLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Origin tags every event of the returned logger with the subsystem that
// emitted it, e.g. "Commit" or "Backup".
func Origin(l zerolog.Logger, origin string) zerolog.Logger {
	return l.With().Str("origin", origin).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
