// Package logging wraps github.com/joeycumines/logiface with
// github.com/rs/zerolog as the concrete Event/Writer, the same pairing the
// teacher's logiface-zerolog package provides, trimmed down to the field
// types the scheduler and recorder actually emit (message, error, string,
// int, int64, uint64, float64, bool, time, duration).
//
// §7 requires severity-colored single-line output on stderr (red errors,
// yellow warnings, plain info/debug); that comes from zerolog's
// ConsoleWriter. The writer is synchronous: each record is written to the
// underlying io.Writer before the logging call returns, so a slow or
// blocked writer stalls the caller, the real-time thread included.
package logging
