package logging

import (
	"io"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is this repository's diagnostic logger: a thin logiface.Logger
// bound to a zerolog backend.
type Logger = logiface.Logger[*event]

// New builds a Logger writing severity-colored single-line records to w
// (§7), via zerolog's ConsoleWriter. Pass os.Stderr for the default
// process-wide logger.
func New(w io.Writer, level logiface.Level) *Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	z := zerolog.New(cw).With().Timestamp().Logger()
	b := &backend{z: z}
	return logiface.New[*event](
		logiface.WithEventFactory[*event](b),
		logiface.WithEventReleaser[*event](b),
		logiface.WithWriter[*event](b),
		logiface.WithLevel[*event](level),
	)
}

// Default is the process-wide logger, writing to stderr at Notice level
// (warnings, overruns, and trial summaries; not per-tick chatter).
var Default = New(os.Stderr, logiface.LevelNotice)
