package x

import (
	"math/bits"

	"github.com/iov-one/bazaar/errors"
)

// AddAmount returns the sum of two amounts. ErrOverflow is returned if the
// result does not fit.
func AddAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// SubAmount returns a - b. ErrInsufficientAmount is returned if b is greater
// than a.
func SubAmount(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "%d is less than %d", a, b)
	}
	return diff, nil
}
