// Package safeconv converts between integer widths where a value out of range
// can only mean a programming error, so it panics instead of wrapping.
package safeconv

import "math"

// MustIntToUint64 converts a size or count to uint64, panicking if it is negative.
func MustIntToUint64(v int) uint64 {
	if v < 0 {
		panic("safeconv: negative int to uint64 conversion")
	}

	return uint64(v)
}

// MustIntToUint32 converts an arena index, panicking outside [0, MaxUint32].
func MustIntToUint32(v int) uint32 {
	if v < 0 || uint64(v) > math.MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}
