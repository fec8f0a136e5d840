package unitconv

import (
	"fmt"
	"strings"
)

// ErrIncompatible is returned by Convert when unitsIn and unitsOut are
// neither equal nor the s/Hz reciprocal pair.
var ErrIncompatible = fmt.Errorf("unitconv: incompatible units")

// Convert maps x from unitsIn to unitsOut. Units are compared
// case-insensitively. Equal units are an identity conversion; "s" and "Hz"
// (in either direction) are reciprocal; every other pair is rejected with
// ErrIncompatible.
func Convert(x float64, unitsIn, unitsOut string) (float64, error) {
	if strings.EqualFold(unitsIn, unitsOut) {
		return x, nil
	}
	if isReciprocalPair(unitsIn, unitsOut) {
		if x == 0 {
			return 0, fmt.Errorf("unitconv: convert 0 %s to %s: %w", unitsIn, unitsOut, ErrIncompatible)
		}
		return 1.0 / x, nil
	}
	return 0, fmt.Errorf("unitconv: convert %s to %s: %w", unitsIn, unitsOut, ErrIncompatible)
}

func isReciprocalPair(a, b string) bool {
	return (strings.EqualFold(a, "s") && strings.EqualFold(b, "Hz")) ||
		(strings.EqualFold(a, "Hz") && strings.EqualFold(b, "s"))
}
