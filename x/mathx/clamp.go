package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
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

// SatInc returns v+1, or limit if v+1 would exceed it.
func SatInc[T constraints.Integer](v, limit T) T {
	if v >= limit {
		return limit
	}
	return v + 1
}
