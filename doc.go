// Package dynclamp holds the cross-cutting types shared across this module:
// the Status of a finished trial and the sentinel errors for trial outcomes.
// The event kinds live in package event.
//
// The engine itself is not in this package — see clock, entity, event,
// scheduler, stim, recorder, and graphutil.
package dynclamp
