package array

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

var _ typeinfo.Collectable = (*Array)(nil)

// RefCount returns the number of owners of the array.
func (a *Array) RefCount() int32 { return a.refs.Load() }

// SetGCFlag marks the array for the collector. AddRef and Release clear it.
func (a *Array) SetGCFlag() { a.gcFlag.Store(true) }

func (a *Array) GCFlag() bool { return a.gcFlag.Load() }

// EnumReferences reports every held handle to visit. Value objects of a GC
// type forward the enumeration to their factory.
func (a *Array) EnumReferences(visit typeinfo.Visitor) {
	t := a.lc.sub.Type
	switch a.lc.cat {
	case typeinfo.CategoryHandle:
		for i := 0; i < a.size; i++ {
			if r := typeinfo.ReadRef(a.lc.slot(a.buf, i)); r != typeinfo.Null {
				visit(t, r)
			}
		}
	case typeinfo.CategoryValue:
		if !t.IsGC() {
			return
		}
		en, ok := a.lc.factory.(typeinfo.Enumerator)
		if !ok {
			return
		}
		for i := 0; i < a.size; i++ {
			if r := typeinfo.ReadRef(a.lc.slot(a.buf, i)); r != typeinfo.Null {
				en.EnumReferences(r, visit)
			}
		}
	}
}

// ReleaseAllReferences clears the array to break a reference cycle.
func (a *Array) ReleaseAllReferences() {
	if err := a.releaseForCollector(); err != nil {
		a.logger.Warn("release all references failed",
			zap.Stringer("array", a),
			zap.Error(err))
	}
}

func (a *Array) releaseForCollector() error {
	err := a.Clear()
	if err == nil {
		return nil
	}
	kind := errors.KindReentrant
	var e *errors.Error
	if stderrors.As(err, &e) {
		kind = e.Kind
	}
	return errors.Wrap(errors.PhaseGC, kind, err, "release all references")
}
