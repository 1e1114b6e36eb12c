package array

import (
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// comparer evaluates equality and ordering between slots of one subtype.
// Object comparisons run resolved methods through one execution context
// held for the comparer's lifetime.
type comparer struct {
	engine typeinfo.Engine
	ctx    typeinfo.Context
	eq     *typeinfo.Method
	cmp    *typeinfo.Method
	sub    typeinfo.Subtype
	cat    typeinfo.Category
}

// newComparer prepares a comparer. Object subtypes need opCmp when ordering
// is set, and opEquals or opCmp otherwise.
func newComparer(sub typeinfo.Subtype, ordering bool) (*comparer, error) {
	c := &comparer{sub: sub, cat: sub.Category()}
	if c.cat == typeinfo.CategoryPrimitive {
		return c, nil
	}

	cache := comparators(sub)
	var err error
	if ordering {
		c.cmp, err = cache.ordering(sub)
	} else {
		c.eq, c.cmp, err = cache.equality(sub)
	}
	if err != nil {
		return nil, err
	}

	reg := sub.Type.Registry()
	if reg == nil {
		c.engine = typeinfo.NativeEngine{}
	} else {
		c.engine = reg.Engine()
	}
	if c.ctx, err = c.engine.RequestContext(); err != nil {
		return nil, errors.Script("request context", err)
	}
	return c, nil
}

func (c *comparer) close() {
	if c.ctx != nil {
		c.engine.ReturnContext(c.ctx)
		c.ctx = nil
	}
}

// equal reports whether two slots hold equal elements. Identical handles,
// including two nulls, are equal without calling any method.
func (c *comparer) equal(x, y []byte) (bool, error) {
	if c.cat == typeinfo.CategoryPrimitive {
		return typeinfo.EqualPrimitive(c.sub.Type.Kind(), x, y), nil
	}

	rx, ry := typeinfo.ReadRef(x), typeinfo.ReadRef(y)
	if c.cat == typeinfo.CategoryHandle {
		if rx == ry {
			return true, nil
		}
		if rx == typeinfo.Null || ry == typeinfo.Null {
			return false, nil
		}
	}

	if c.eq != nil {
		raw, err := c.ctx.Execute(c.eq, rx, ry)
		if err != nil {
			return false, err
		}
		return typeinfo.DecodeBool(raw), nil
	}
	raw, err := c.ctx.Execute(c.cmp, rx, ry)
	if err != nil {
		return false, err
	}
	return typeinfo.DecodeInt32(raw) == 0, nil
}

// compare orders two slots. Null handles order before every other handle.
func (c *comparer) compare(x, y []byte) (int, error) {
	if c.cat == typeinfo.CategoryPrimitive {
		return typeinfo.ComparePrimitive(c.sub.Type.Kind(), x, y), nil
	}

	rx, ry := typeinfo.ReadRef(x), typeinfo.ReadRef(y)
	if c.cat == typeinfo.CategoryHandle {
		switch {
		case rx == ry:
			return 0, nil
		case rx == typeinfo.Null:
			return -1, nil
		case ry == typeinfo.Null:
			return 1, nil
		}
	}

	raw, err := c.ctx.Execute(c.cmp, rx, ry)
	if err != nil {
		return 0, err
	}
	switch v := typeinfo.DecodeInt32(raw); {
	case v < 0:
		return -1, nil
	case v > 0:
		return 1, nil
	default:
		return 0, nil
	}
}

// searchBounds clamps a [from, from+n) window to the array. A negative n
// runs to the end.
func (a *Array) searchBounds(op string, from, n int) (int, int, error) {
	if from < 0 {
		return 0, 0, errors.OutOfRange(errors.PhaseQuery, []string{a.String(), op}, from, a.size)
	}
	end := a.size
	if n >= 0 && n < end-from {
		end = from + n
	}
	return from, end, nil
}

// Find returns the index of the first element equal to v in the window of n
// elements starting at from, or -1. A negative n searches to the end.
func (a *Array) Find(from, n int, v any) (int, error) {
	idx := -1
	err := a.scan("Find", from, n, v, func(i int) bool {
		idx = i
		return false
	})
	if err != nil {
		return -1, err
	}
	return idx, nil
}

// Contains reports whether any element equals v.
func (a *Array) Contains(v any) (bool, error) {
	idx, err := a.Find(0, -1, v)
	return idx >= 0, err
}

// Count returns the number of elements equal to v in the window of n
// elements starting at from. A negative n counts to the end.
func (a *Array) Count(from, n int, v any) (int, error) {
	count := 0
	err := a.scan("Count", from, n, v, func(int) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// scan calls hit for every element equal to v until hit returns false.
func (a *Array) scan(op string, from, n int, v any, hit func(i int) bool) error {
	start, end, err := a.searchBounds(op, from, n)
	if err != nil {
		return err
	}

	c, err := newComparer(a.lc.sub, false)
	if err != nil {
		return err
	}
	defer c.close()

	return a.withOperand(op, v, func(src []byte) error {
		if c.cat != typeinfo.CategoryPrimitive {
			defer a.enumerate()()
		}
		for i := start; i < end && i < a.size; i++ {
			ok, err := c.equal(a.lc.slot(a.buf, i), src)
			if err != nil {
				return err
			}
			if ok && !hit(i) {
				return nil
			}
		}
		return nil
	})
}

// FindByRef returns the index of the first slot at or after from holding
// exactly r, or -1. No comparison methods run.
func (a *Array) FindByRef(from int, r typeinfo.Ref) (int, error) {
	if a.lc.cat == typeinfo.CategoryPrimitive {
		return -1, errors.TypeMismatch(errors.PhaseQuery, []string{a.String(), "FindByRef"}, "primitive element", "object element")
	}
	if from < 0 {
		return -1, errors.OutOfRange(errors.PhaseQuery, []string{a.String(), "FindByRef"}, from, a.size)
	}
	for i := from; i < a.size; i++ {
		if typeinfo.ReadRef(a.lc.slot(a.buf, i)) == r {
			return i, nil
		}
	}
	return -1, nil
}

// EraseValue removes every element equal to v and returns the number
// removed.
func (a *Array) EraseValue(v any) (int, error) {
	if err := a.guard("EraseValue"); err != nil {
		return 0, err
	}
	c, err := newComparer(a.lc.sub, false)
	if err != nil {
		return 0, err
	}
	defer c.close()

	removed := 0
	err = a.withOperand("EraseValue", v, func(src []byte) error {
		var err error
		removed, err = a.eraseMatching(func(slot []byte) (bool, error) {
			return c.equal(slot, src)
		})
		return err
	})
	return removed, err
}

// Equal reports whether other has the same subtype and size as a and equal
// elements pairwise.
func (a *Array) Equal(other *Array) (bool, error) {
	if other == nil || other.lc.sub != a.lc.sub || other.size != a.size {
		return false, nil
	}
	if a.size == 0 {
		return true, nil
	}

	c, err := newComparer(a.lc.sub, false)
	if err != nil {
		return false, err
	}
	defer c.close()

	if c.cat != typeinfo.CategoryPrimitive {
		defer a.enumerate()()
		if other != a {
			defer other.enumerate()()
		}
	}
	for i := 0; i < a.size && i < other.size; i++ {
		ok, err := c.equal(a.lc.slot(a.buf, i), other.lc.slot(other.buf, i))
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
