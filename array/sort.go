package array

import (
	"sort"

	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// sortBounds validates the [idx, idx+n) window of a sort.
func (a *Array) sortBounds(op string, idx, n int) error {
	if idx < 0 || n < 0 || idx > a.size || n > a.size-idx {
		return errors.OutOfRange(errors.PhaseCompare, []string{a.String(), op}, idx+n, a.size)
	}
	return nil
}

// Sort orders the n elements starting at idx. Primitive elements compare by
// value. Object elements need an opCmp method; without exactly one the sort
// fails before anything moves.
func (a *Array) Sort(idx, n int, ascending bool) error {
	if err := a.guard("Sort"); err != nil {
		return err
	}
	if err := a.sortBounds("Sort", idx, n); err != nil {
		return err
	}

	c, err := newComparer(a.lc.sub, true)
	if err != nil {
		return err
	}
	defer c.close()

	if n < 2 {
		return nil
	}

	if c.cat == typeinfo.CategoryPrimitive {
		sort.Sort(&primitiveSorter{
			lc:        &a.lc,
			buf:       a.lc.span(a.buf, idx, n),
			kind:      a.lc.sub.Type.Kind(),
			ascending: ascending,
		})
		return nil
	}

	defer a.enumerate()()
	return a.sortObjects(idx, n, func(x, y []byte) (bool, error) {
		r, err := c.compare(x, y)
		if err != nil {
			return false, err
		}
		if ascending {
			return r < 0, nil
		}
		return r > 0, nil
	})
}

// SortFunc orders the n elements starting at idx by less. less receives
// decoded elements and must not change the array's structure. Once less
// fails it is not called again; the window holds a permutation of its
// original elements when the error is returned.
func (a *Array) SortFunc(idx, n int, less func(x, y any) (bool, error)) error {
	if err := a.guard("SortFunc"); err != nil {
		return err
	}
	if err := a.sortBounds("SortFunc", idx, n); err != nil {
		return err
	}
	if n < 2 {
		return nil
	}

	defer a.enumerate()()
	return a.sortObjects(idx, n, func(x, y []byte) (bool, error) {
		return less(typeinfo.Decode(a.lc.sub, x), typeinfo.Decode(a.lc.sub, y))
	})
}

// sortObjects sorts a window with a fallible less. Elements only move by
// swapping, so every slot owns exactly the element it holds even when less
// calls back into the array.
func (a *Array) sortObjects(idx, n int, less func(x, y []byte) (bool, error)) error {
	s := &objectSorter{a: a, idx: idx, n: n, less: less}
	sort.Sort(s)
	return s.err
}

// objectSorter reads slots through the array on every call because less
// may Set elements while the sort runs.
type objectSorter struct {
	a      *Array
	idx, n int
	less   func(x, y []byte) (bool, error)
	err    error
}

func (s *objectSorter) Len() int { return s.n }

// Less reports false for every pair once less has failed, which sort.Sort
// treats as all elements being equal.
func (s *objectSorter) Less(i, j int) bool {
	if s.err != nil {
		return false
	}
	ok, err := s.less(s.a.lc.slot(s.a.buf, s.idx+i), s.a.lc.slot(s.a.buf, s.idx+j))
	if err != nil {
		s.err = err
		return false
	}
	return ok
}

func (s *objectSorter) Swap(i, j int) { s.a.lc.swap(s.a.buf, s.idx+i, s.idx+j) }

type primitiveSorter struct {
	lc        *lifecycle
	buf       []byte
	kind      typeinfo.Kind
	ascending bool
}

func (s *primitiveSorter) Len() int { return len(s.buf) / s.lc.size }

func (s *primitiveSorter) Less(i, j int) bool {
	r := typeinfo.ComparePrimitive(s.kind, s.lc.slot(s.buf, i), s.lc.slot(s.buf, j))
	if s.ascending {
		return r < 0
	}
	return r > 0
}

func (s *primitiveSorter) Swap(i, j int) { s.lc.swap(s.buf, i, j) }
