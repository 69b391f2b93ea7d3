package pkg

import "math"

// Providers report amounts in minor units (centavos); entities store major
// units. Conversions split on integers so the value is exact regardless of
// how many times an amount crosses the boundary.

// MinorToMajor converts minor currency units to major units (250 -> 2.50).
func MinorToMajor(minor int64) float64 {
	return float64(minor/100) + float64(minor%100)/100
}

// MajorToMinor converts major currency units back to minor units
// (2.50 -> 250). Values are rounded to the nearest cent.
func MajorToMinor(major float64) int64 {
	return int64(math.Round(major * 100))
}
