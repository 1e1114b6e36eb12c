package array

import (
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// lifecycle constructs, copies, moves, and destroys slots of one subtype.
// Every bulk operation switches on the category once and then runs a tight
// per-slot loop. Batch constructions either fill every requested slot or
// leave the whole batch null.
type lifecycle struct {
	sub     typeinfo.Subtype
	factory typeinfo.Factory
	counter typeinfo.Counter
	size    int
	cat     typeinfo.Category
}

func newLifecycle(sub typeinfo.Subtype) lifecycle {
	return lifecycle{
		sub:     sub,
		factory: sub.Type.Factory(),
		counter: sub.Type.Counter(),
		size:    sub.SlotSize(),
		cat:     sub.Category(),
	}
}

func (l *lifecycle) slot(buf []byte, i int) []byte {
	off := i * l.size
	return buf[off : off+l.size : off+l.size]
}

func (l *lifecycle) span(buf []byte, start, n int) []byte {
	return buf[start*l.size : (start+n)*l.size]
}

func (l *lifecycle) zero(buf []byte, start, n int) {
	clear(l.span(buf, start, n))
}

// defaultConstructN fills [start, start+n) with default elements. Primitive
// and Handle slots are zero; value objects are constructed by the factory.
func (l *lifecycle) defaultConstructN(buf []byte, start, n int) error {
	if l.cat != typeinfo.CategoryValue {
		l.zero(buf, start, n)
		return nil
	}
	for i := 0; i < n; i++ {
		r, err := l.factory.Construct()
		if err == nil && r == typeinfo.Null {
			err = errors.InvalidInput(errors.PhaseConstruct, "factory returned a null instance")
		}
		if err != nil {
			l.rollback(buf, start, i)
			return errors.ElementConstruction(errors.PhaseConstruct, l.sub.String(), start+i, err)
		}
		typeinfo.WriteRef(l.slot(buf, start+i), r)
	}
	return nil
}

// valueConstructN fills [start, start+n) with copies of the element encoded
// in src. A null value object source constructs default elements.
func (l *lifecycle) valueConstructN(buf []byte, start, n int, src []byte) error {
	switch l.cat {
	case typeinfo.CategoryPrimitive:
		for i := 0; i < n; i++ {
			copy(l.slot(buf, start+i), src)
		}
		return nil
	case typeinfo.CategoryHandle:
		r := typeinfo.ReadRef(src)
		for i := 0; i < n; i++ {
			if r != typeinfo.Null {
				l.counter.AddRef(r)
			}
			typeinfo.WriteRef(l.slot(buf, start+i), r)
		}
		return nil
	}

	r := typeinfo.ReadRef(src)
	if r == typeinfo.Null {
		return l.defaultConstructN(buf, start, n)
	}
	for i := 0; i < n; i++ {
		c, err := l.factory.Copy(r)
		if err == nil && c == typeinfo.Null {
			err = errors.InvalidInput(errors.PhaseConstruct, "factory returned a null instance")
		}
		if err != nil {
			l.rollback(buf, start, i)
			return errors.ElementConstruction(errors.PhaseConstruct, l.sub.String(), start+i, err)
		}
		typeinfo.WriteRef(l.slot(buf, start+i), c)
	}
	return nil
}

// copyConstructRange fills dst[dstStart, dstStart+n) with copies of
// src[srcStart, srcStart+n). The ranges must not overlap.
func (l *lifecycle) copyConstructRange(dst []byte, dstStart int, src []byte, srcStart, n int) error {
	switch l.cat {
	case typeinfo.CategoryPrimitive:
		copy(l.span(dst, dstStart, n), l.span(src, srcStart, n))
		return nil
	case typeinfo.CategoryHandle:
		for i := 0; i < n; i++ {
			r := typeinfo.ReadRef(l.slot(src, srcStart+i))
			if r != typeinfo.Null {
				l.counter.AddRef(r)
			}
			typeinfo.WriteRef(l.slot(dst, dstStart+i), r)
		}
		return nil
	}

	for i := 0; i < n; i++ {
		var (
			c   typeinfo.Ref
			err error
		)
		if r := typeinfo.ReadRef(l.slot(src, srcStart+i)); r != typeinfo.Null {
			c, err = l.factory.Copy(r)
		} else {
			c, err = l.factory.Construct()
		}
		if err == nil && c == typeinfo.Null {
			err = errors.InvalidInput(errors.PhaseConstruct, "factory returned a null instance")
		}
		if err != nil {
			l.rollback(dst, dstStart, i)
			return errors.ElementConstruction(errors.PhaseConstruct, l.sub.String(), dstStart+i, err)
		}
		typeinfo.WriteRef(l.slot(dst, dstStart+i), c)
	}
	return nil
}

// moveRange moves n slots from src to dst within buf and zeroes the source
// slots that the destination does not cover. Ownership travels with the
// bytes, so no counts are touched.
func (l *lifecycle) moveRange(buf []byte, dst, src, n int) {
	if n <= 0 || dst == src {
		return
	}
	copy(l.span(buf, dst, n), l.span(buf, src, n))
	switch {
	case dst < src:
		lo := max(src, dst+n)
		l.zero(buf, lo, src+n-lo)
	default:
		hi := min(src+n, dst)
		l.zero(buf, src, hi-src)
	}
}

// rotate moves the n slots at [at+count, at+count+n) in front of
// [at, at+count) by reversing the byte ranges.
func (l *lifecycle) rotate(buf []byte, at, count, n int) {
	if n == 0 || count == 0 {
		return
	}
	region := l.span(buf, at, count+n)
	split := count * l.size
	reverseBytes(region[:split])
	reverseBytes(region[split:])
	reverseBytes(region)
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// swap exchanges two slots.
func (l *lifecycle) swap(buf []byte, i, j int) {
	a, b := l.slot(buf, i), l.slot(buf, j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// assign overwrites the element in dst with the element encoded in src.
func (l *lifecycle) assign(dst, src []byte) error {
	switch l.cat {
	case typeinfo.CategoryPrimitive:
		copy(dst, src)
		return nil
	case typeinfo.CategoryHandle:
		r, old := typeinfo.ReadRef(src), typeinfo.ReadRef(dst)
		if r == old {
			return nil
		}
		if r != typeinfo.Null {
			l.counter.AddRef(r)
		}
		typeinfo.WriteRef(dst, r)
		if old != typeinfo.Null {
			l.counter.Release(old)
		}
		return nil
	}

	r, cur := typeinfo.ReadRef(src), typeinfo.ReadRef(dst)
	if r == typeinfo.Null {
		// assigning null resets the element to a default instance
		def, err := l.factory.Construct()
		if err != nil {
			return errors.ElementConstruction(errors.PhaseMutate, l.sub.String(), 0, err)
		}
		defer l.factory.Destroy(def)
		r = def
	}
	if err := l.factory.Assign(cur, r); err != nil {
		return errors.ElementConstruction(errors.PhaseMutate, l.sub.String(), 0, err)
	}
	return nil
}

// detach nulls [start, start+n) and returns the references the slots owned.
// The caller releases them with releaseAll once the array is consistent
// again, because releasing may run code that reenters the array.
func (l *lifecycle) detach(buf []byte, start, n int) []typeinfo.Ref {
	if n <= 0 {
		return nil
	}
	if l.cat == typeinfo.CategoryPrimitive {
		l.zero(buf, start, n)
		return nil
	}
	var victims []typeinfo.Ref
	for i := 0; i < n; i++ {
		s := l.slot(buf, start+i)
		if r := typeinfo.ReadRef(s); r != typeinfo.Null {
			victims = append(victims, r)
		}
	}
	l.zero(buf, start, n)
	return victims
}

// releaseAll drops references previously detached from slots.
func (l *lifecycle) releaseAll(victims []typeinfo.Ref) {
	for _, r := range victims {
		l.release(r)
	}
}

func (l *lifecycle) release(r typeinfo.Ref) {
	switch l.cat {
	case typeinfo.CategoryHandle:
		l.counter.Release(r)
	case typeinfo.CategoryValue:
		l.factory.Destroy(r)
	}
}

// destroyN destroys [start, start+n) in place.
func (l *lifecycle) destroyN(buf []byte, start, n int) {
	l.releaseAll(l.detach(buf, start, n))
}

// rollback destroys the first n slots of a failed batch starting at start.
func (l *lifecycle) rollback(buf []byte, start, n int) {
	l.destroyN(buf, start, n)
}
