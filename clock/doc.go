// Package clock implements the process-wide time base described in §3: a
// quantised tick period (Dt) and a monotonically increasing simulation clock
// (T) that resets to zero at every trial start.
//
// Per §9's "replacing process-wide globals" note, Base is an explicit value
// threaded through the scheduler and entities rather than a package-level
// global; callers that want the original's single-instance behavior simply
// keep one Base alive for the process.
package clock
