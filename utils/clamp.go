package utils

import "golang.org/x/exp/constraints"

// Clamp bounds v to [lo, hi]. The bounds may be passed in either order.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
