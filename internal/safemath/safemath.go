// Package safemath provides checked integer arithmetic for the calendrical
// types built on top of it. Every primitive fails with tzerr.ErrOverflow
// at the exact boundary instead of wrapping silently; nothing in this
// module is permitted to perform unchecked arithmetic on a value that
// came from outside a single function body.
package safemath

import (
	"fmt"
	"math"

	"github.com/dimensia/tzcore/tzerr"
)

// AddInt64 returns a+b, or an error if the mathematical sum does not fit
// in an int64. Detected by the classical sign-XOR test: overflow can only
// occur when both operands have the same sign and the result's sign
// differs from theirs.
func AddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		return 0, fmt.Errorf("%w: %d + %d", tzerr.ErrOverflow, a, b)
	}
	return sum, nil
}

// SubInt64 returns a-b, or an error if the mathematical difference does
// not fit in an int64.
func SubInt64(a, b int64) (int64, error) {
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		return 0, fmt.Errorf("%w: %d - %d", tzerr.ErrOverflow, a, b)
	}
	return diff, nil
}

// NegateInt64 returns -a, or an error if a is math.MinInt64 (whose
// negation does not fit in an int64).
func NegateInt64(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, fmt.Errorf("%w: negate %d", tzerr.ErrOverflow, a)
	}
	return -a, nil
}

// MulInt64 returns a*b, or an error if the mathematical product does not
// fit in an int64. Verified by dividing back out: total/b == a, plus an
// explicit check for the MIN*-1 case which overflows despite passing the
// division check on some platforms' undefined-behaviour-free Go runtime
// (division of MinInt64 by -1 itself overflows).
func MulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a == -1 && b == math.MinInt64 {
		return 0, fmt.Errorf("%w: %d * %d", tzerr.ErrOverflow, a, b)
	}
	if b == -1 && a == math.MinInt64 {
		return 0, fmt.Errorf("%w: %d * %d", tzerr.ErrOverflow, a, b)
	}
	total := a * b
	if total/b != a {
		return 0, fmt.Errorf("%w: %d * %d", tzerr.ErrOverflow, a, b)
	}
	return total, nil
}

// IncrementInt64 returns a+1, or an error on overflow.
func IncrementInt64(a int64) (int64, error) { return AddInt64(a, 1) }

// DecrementInt64 returns a-1, or an error on overflow.
func DecrementInt64(a int64) (int64, error) { return SubInt64(a, 1) }

// ToInt32 narrows a to int32, or fails if the value does not fit.
func ToInt32(a int64) (int32, error) {
	if a < math.MinInt32 || a > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d does not fit in int32", tzerr.ErrOverflow, a)
	}
	return int32(a), nil
}

// Compare returns -1, 0, or 1 according to whether a is less than, equal
// to, or greater than b.
func Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FloorDiv returns the floor of a/b. Panics if b is zero, matching the
// behaviour of Go's own / operator on integers.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns a modulo b with the sign of the result always matching
// the sign of b (for b > 0 the result is in [0, b)), satisfying
// a == FloorDiv(a,b)*b + FloorMod(a,b). Panics if b is zero.
func FloorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		r += b
	}
	return r
}
