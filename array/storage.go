package array

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
)

// checkSize fails when n elements exceed the configured maximum or their
// byte length does not fit an int.
func (a *Array) checkSize(n int) error {
	if n < 0 {
		return errors.InvalidInput(errors.PhaseAlloc, "negative element count")
	}
	if a.maxElements > 0 && uint64(n) > a.maxElements {
		return errors.TooLarge(errors.PhaseAlloc, a.lc.sub.String(), uint64(n))
	}
	if a.lc.size > 0 && n > math.MaxInt/a.lc.size {
		return errors.TooLarge(errors.PhaseAlloc, a.lc.sub.String(), uint64(n))
	}
	return nil
}

// Reserve makes room for at least n elements. Growth is geometric but never
// below n. On failure the array is unchanged.
func (a *Array) Reserve(n int) error {
	if err := a.guard("Reserve"); err != nil {
		return err
	}
	return a.reserve(n)
}

func (a *Array) reserve(n int) error {
	if err := a.checkSize(n); err != nil {
		return err
	}
	if n <= a.capacity {
		return nil
	}

	newCap := max(n, a.capacity+a.capacity/2)
	if a.checkSize(newCap) != nil {
		newCap = n
	}
	return a.reallocate(newCap)
}

// reallocate moves the elements into a fresh buffer of exactly newCap slots.
func (a *Array) reallocate(newCap int) error {
	var buf []byte
	if newCap > 0 {
		var err error
		buf, err = a.alloc.Alloc(newCap * a.lc.size)
		if err != nil {
			a.logger.Debug("array allocation failed",
				zap.Stringer("array", a),
				zap.Int("capacity", newCap),
				zap.Error(err))
			return err
		}
	}
	copy(buf, a.buf[:a.size*a.lc.size])
	a.freeBuffer()
	a.buf = buf
	a.capacity = newCap

	a.logger.Debug("array reallocated",
		zap.Stringer("array", a),
		zap.Int("size", a.size),
		zap.Int("capacity", newCap))
	return nil
}

func (a *Array) freeBuffer() {
	if a.buf != nil {
		a.alloc.Free(a.buf)
	}
	a.buf = nil
	a.capacity = 0
}

// ShrinkToFit reduces the capacity to the size, freeing the buffer of an
// empty array.
func (a *Array) ShrinkToFit() error {
	if err := a.guard("ShrinkToFit"); err != nil {
		return err
	}
	if a.capacity == a.size {
		return nil
	}
	return a.reallocate(a.size)
}
