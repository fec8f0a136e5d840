// Package unitconv converts scalar physical quantities between the small
// set of unit pairs the engine actually needs: a no-op for matching units,
// and the reciprocal relationship between seconds and hertz that a
// frequency-parameterised entity (a PeriodicTrigger bound to a period
// instead of a rate, say) requires.
//
// Grounded on original_source/src/utils.cpp's ConvertUnits: a
// case-insensitive unit-string comparison, identity for equal units, 1/x
// for s<->Hz, and a rejection (there: a bool false; here: an error) for any
// other pair, since the original only ever exercises this one conversion.
package unitconv
