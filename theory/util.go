package theory

import "golang.org/x/exp/constraints"

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mod is the euclidean modulo, always in [0, m).
func Mod[T constraints.Integer](v, m T) T {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

// FloorDiv rounds towards minus infinity.
func FloorDiv[T constraints.Integer](v, m T) T {
	q := v / m
	if (v%m != 0) && ((v < 0) != (m < 0)) {
		q--
	}
	return q
}
