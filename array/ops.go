package array

import (
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

func (a *Array) outOfRange(op string, index int) error {
	return errors.OutOfRange(errors.PhaseMutate, []string{a.String(), op}, index, a.size)
}

// PushBack appends a copy of v.
func (a *Array) PushBack(v any) error {
	return a.insert("PushBack", a.size, v)
}

// PopBack removes the last element.
func (a *Array) PopBack() error {
	if err := a.guard("PopBack"); err != nil {
		return err
	}
	if a.size == 0 {
		return a.outOfRange("PopBack", -1)
	}
	return a.Erase(a.size-1, 1)
}

// Insert inserts a copy of v before idx. idx == Size appends.
func (a *Array) Insert(idx int, v any) error {
	return a.insert("Insert", idx, v)
}

func (a *Array) insert(op string, idx int, v any) error {
	if err := a.guard(op); err != nil {
		return err
	}
	if idx < 0 || idx > a.size {
		return a.outOfRange(op, idx)
	}
	return a.withOperand(op, v, func(src []byte) error {
		return a.insertWith(idx, 1, func() error {
			return a.lc.valueConstructN(a.buf, a.size, 1, src)
		})
	})
}

// InsertRange inserts copies of the first n elements of other before idx.
// n is clamped to other's size; a negative n inserts all of other. other may
// be the array itself.
func (a *Array) InsertRange(idx int, other *Array, n int) error {
	if err := a.guard("InsertRange"); err != nil {
		return err
	}
	if idx < 0 || idx > a.size {
		return a.outOfRange("InsertRange", idx)
	}
	if other == nil {
		return errors.InvalidInput(errors.PhaseMutate, "source array is nil")
	}
	if other.lc.sub != a.lc.sub {
		return errors.TypeMismatch(errors.PhaseMutate, []string{a.String(), "InsertRange"}, other.String(), a.String())
	}
	if n < 0 || n > other.size {
		n = other.size
	}
	if n == 0 {
		return nil
	}
	return a.insertWith(idx, n, func() error {
		return a.lc.copyConstructRange(a.buf, a.size, other.buf, 0, n)
	})
}

// AppendRange appends copies of the first n elements of other.
func (a *Array) AppendRange(other *Array, n int) error {
	return a.InsertRange(a.size, other, n)
}

// insertWith grows the array by n, lets construct fill the spare slots at
// [size, size+n), then rotates them into place at idx. A failed construction
// leaves the array as it was.
func (a *Array) insertWith(idx, n int, construct func() error) error {
	if err := a.reserve(a.size + n); err != nil {
		return err
	}
	if err := construct(); err != nil {
		return err
	}
	a.lc.rotate(a.buf, idx, a.size-idx, n)
	a.size += n
	return nil
}

// Erase removes up to n elements starting at idx.
func (a *Array) Erase(idx, n int) error {
	if err := a.guard("Erase"); err != nil {
		return err
	}
	if idx < 0 || idx >= a.size {
		return a.outOfRange("Erase", idx)
	}
	if n <= 0 {
		return nil
	}
	n = min(n, a.size-idx)

	victims := a.lc.detach(a.buf, idx, n)
	a.lc.moveRange(a.buf, idx, idx+n, a.size-idx-n)
	a.size -= n
	a.lc.releaseAll(victims)
	return nil
}

// Clear destroys every element. The capacity is kept.
func (a *Array) Clear() error {
	if err := a.guard("Clear"); err != nil {
		return err
	}
	victims := a.lc.detach(a.buf, 0, a.size)
	a.size = 0
	a.lc.releaseAll(victims)
	return nil
}

// Resize grows the array with default elements or destroys its tail.
func (a *Array) Resize(n int) error {
	if err := a.guard("Resize"); err != nil {
		return err
	}
	if err := a.checkSize(n); err != nil {
		return err
	}
	switch {
	case n < a.size:
		victims := a.lc.detach(a.buf, n, a.size-n)
		a.size = n
		a.lc.releaseAll(victims)
	case n > a.size:
		if err := a.reserve(n); err != nil {
			return err
		}
		if err := a.lc.defaultConstructN(a.buf, a.size, n-a.size); err != nil {
			return err
		}
		a.size = n
	}
	return nil
}

// Assign replaces the contents with copies of other's elements. On failure
// the array is unchanged.
func (a *Array) Assign(other *Array) error {
	if err := a.guard("Assign"); err != nil {
		return err
	}
	if other == a {
		return nil
	}
	if other == nil {
		return errors.InvalidInput(errors.PhaseMutate, "source array is nil")
	}
	if other.lc.sub != a.lc.sub {
		return errors.TypeMismatch(errors.PhaseMutate, []string{a.String(), "Assign"}, other.String(), a.String())
	}

	n := other.size
	if err := a.checkSize(n); err != nil {
		return err
	}
	var buf []byte
	if n > 0 {
		var err error
		if buf, err = a.alloc.Alloc(n * a.lc.size); err != nil {
			return err
		}
		if err := a.lc.copyConstructRange(buf, 0, other.buf, 0, n); err != nil {
			a.alloc.Free(buf)
			return err
		}
	}

	victims := a.lc.detach(a.buf, 0, a.size)
	a.freeBuffer()
	a.buf = buf
	a.size = n
	a.capacity = n
	a.lc.releaseAll(victims)
	return nil
}

// At returns the element at idx. Primitive elements are returned as their Go
// value; value objects and handles as their typeinfo.Ref.
func (a *Array) At(idx int) (any, error) {
	if idx < 0 || idx >= a.size {
		return nil, errors.OutOfRange(errors.PhaseQuery, []string{a.String(), "At"}, idx, a.size)
	}
	return typeinfo.Decode(a.lc.sub, a.lc.slot(a.buf, idx)), nil
}

// RefAt returns the reference stored at idx of an object array.
func (a *Array) RefAt(idx int) (typeinfo.Ref, error) {
	if a.lc.cat == typeinfo.CategoryPrimitive {
		return typeinfo.Null, errors.TypeMismatch(errors.PhaseQuery, []string{a.String(), "RefAt"}, "primitive element", "object element")
	}
	if idx < 0 || idx >= a.size {
		return typeinfo.Null, errors.OutOfRange(errors.PhaseQuery, []string{a.String(), "RefAt"}, idx, a.size)
	}
	return typeinfo.ReadRef(a.lc.slot(a.buf, idx)), nil
}

// Set overwrites the element at idx with a copy of v.
func (a *Array) Set(idx int, v any) error {
	if a.destroyed.Load() {
		return errors.Released("Set")
	}
	if idx < 0 || idx >= a.size {
		return a.outOfRange("Set", idx)
	}
	var tmp [8]byte
	src := tmp[:a.lc.size]
	if err := typeinfo.EncodeInto(src, a.lc.sub, v); err != nil {
		return err
	}
	return a.lc.assign(a.lc.slot(a.buf, idx), src)
}

func (a *Array) Front() (any, error) { return a.At(0) }

func (a *Array) Back() (any, error) { return a.At(a.size - 1) }

func (a *Array) SetFront(v any) error { return a.Set(0, v) }

func (a *Array) SetBack(v any) error { return a.Set(a.size-1, v) }

// Reverse reverses the order of up to n elements starting at idx.
func (a *Array) Reverse(idx, n int) error {
	if err := a.guard("Reverse"); err != nil {
		return err
	}
	if n == 0 && idx == a.size {
		return nil
	}
	if idx < 0 || idx >= a.size {
		return a.outOfRange("Reverse", idx)
	}
	if n < 0 || n > a.size-idx {
		n = a.size - idx
	}
	for i, j := idx, idx+n-1; i < j; i, j = i+1, j-1 {
		a.lc.swap(a.buf, i, j)
	}
	return nil
}

// Values returns a decoded snapshot of the elements.
func (a *Array) Values() []any {
	out := make([]any, a.size)
	for i := range out {
		out[i] = typeinfo.Decode(a.lc.sub, a.lc.slot(a.buf, i))
	}
	return out
}

// ForEach calls fn for every element in order. fn must not change the
// array's structure; doing so fails with errors.ErrReentrant. The first
// error returned by fn stops the iteration and is returned.
func (a *Array) ForEach(fn func(idx int, v any) error) error {
	defer a.enumerate()()
	for i := 0; i < a.size; i++ {
		if err := fn(i, typeinfo.Decode(a.lc.sub, a.lc.slot(a.buf, i))); err != nil {
			return err
		}
	}
	return nil
}

// EraseIf removes every element for which pred reports true and returns the
// number removed. pred runs for every element before anything is removed, so
// a failing pred leaves the array unchanged.
func (a *Array) EraseIf(pred func(v any) (bool, error)) (int, error) {
	if err := a.guard("EraseIf"); err != nil {
		return 0, err
	}
	return a.eraseMatching(func(slot []byte) (bool, error) {
		return pred(typeinfo.Decode(a.lc.sub, slot))
	})
}

// CountIf returns the number of elements for which pred reports true.
func (a *Array) CountIf(pred func(v any) (bool, error)) (int, error) {
	defer a.enumerate()()
	count := 0
	for i := 0; i < a.size; i++ {
		ok, err := pred(typeinfo.Decode(a.lc.sub, a.lc.slot(a.buf, i)))
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// eraseMatching marks elements under the enumeration guard, then compacts
// the survivors and releases the removed elements.
func (a *Array) eraseMatching(match func(slot []byte) (bool, error)) (int, error) {
	remove := make([]bool, a.size)
	removed := 0
	err := func() error {
		defer a.enumerate()()
		for i := 0; i < a.size; i++ {
			ok, err := match(a.lc.slot(a.buf, i))
			if err != nil {
				return err
			}
			if ok {
				remove[i] = true
				removed++
			}
		}
		return nil
	}()
	if err != nil || removed == 0 {
		return 0, err
	}

	var victims []typeinfo.Ref
	w := 0
	for i := 0; i < a.size; i++ {
		if remove[i] {
			victims = append(victims, a.lc.detach(a.buf, i, 1)...)
			continue
		}
		if w != i {
			a.lc.moveRange(a.buf, w, i, 1)
		}
		w++
	}
	a.size = w
	a.lc.releaseAll(victims)
	return removed, nil
}
