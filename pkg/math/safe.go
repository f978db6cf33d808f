// Package math provides overflow checked arithmetic for token amounts.
package math

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned when an amount computation does not fit in uint64.
var ErrOverflow = errors.New("uint64 overflow")

// SafeSub returns x-y and checks for overflow.
func SafeSub(x, y uint64) (uint64, bool) {
	diff, borrowOut := bits.Sub64(x, y, 0)
	return diff, borrowOut == 0
}

// SafeAdd returns x+y and checks for overflow.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut == 0
}

// SafeMul returns x*y and checks for overflow.
func SafeMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi == 0
}

// LinearFee returns (base + units) * rate, the Ark per byte fee model.
func LinearFee(base, units, rate uint64) (uint64, error) {
	sum, ok := SafeAdd(base, units)
	if !ok {
		return 0, ErrOverflow
	}
	fee, ok := SafeMul(sum, rate)
	if !ok {
		return 0, ErrOverflow
	}
	return fee, nil
}
