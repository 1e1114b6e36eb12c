package array

import (
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// guard rejects structural mutation of a released array or of an array
// whose elements are being visited by a callback.
func (a *Array) guard(op string) error {
	if a.destroyed.Load() {
		return errors.Released(op)
	}
	if a.enumerating.Load() > 0 {
		return errors.Reentrant(op)
	}
	return nil
}

// enumerate marks the array as being visited until the returned func runs.
//
//	defer a.enumerate()()
func (a *Array) enumerate() func() {
	a.enumerating.Add(1)
	return func() { a.enumerating.Add(-1) }
}

// Enumerating reports whether a callback is currently visiting the array.
func (a *Array) Enumerating() bool {
	return a.enumerating.Load() > 0
}

// withOperand encodes v as a slot and runs fn with it. A null value object
// operand is replaced by a temporary default instance for the duration of
// fn.
func (a *Array) withOperand(op string, v any, fn func(src []byte) error) error {
	var tmp [8]byte
	src := tmp[:a.lc.size]
	if err := typeinfo.EncodeInto(src, a.lc.sub, v); err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = []string{a.String(), op}
		}
		return err
	}
	if a.lc.cat == typeinfo.CategoryValue && typeinfo.ReadRef(src) == typeinfo.Null {
		r, err := a.lc.factory.Construct()
		if err != nil {
			return errors.ElementConstruction(errors.PhaseConstruct, a.lc.sub.String(), 0, err)
		}
		defer a.lc.factory.Destroy(r)
		typeinfo.WriteRef(src, r)
	}
	return fn(src)
}
