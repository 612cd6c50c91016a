package utils

import "math"

// CheckedMul returns a*b for non-negative a and b, and false if the product overflows an int.
func CheckedMul(a, b int) (int, bool) {
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}
