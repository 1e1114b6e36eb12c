package array

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// Comparator caches live in the element type's user data. Handles to const
// resolve with stricter rules, so they get their own entry.
const (
	CacheKey      typeinfo.UserDataKey = 1000
	ConstCacheKey typeinfo.UserDataKey = 1001
)

const (
	opEquals = "opEquals"
	opCmp    = "opCmp"
)

type resolution uint8

const (
	resolvedNone resolution = iota
	resolvedOne
	resolvedAmbiguous
)

// comparatorCache holds the equality and ordering methods resolved for one
// element subtype. Immutable once stored on the type.
type comparatorCache struct {
	eq       *typeinfo.Method
	cmp      *typeinfo.Method
	eqState  resolution
	cmpState resolution
}

var (
	cacheMu     sync.Mutex
	cacheBuilds atomic.Int64
)

func cacheKeyFor(sub typeinfo.Subtype) typeinfo.UserDataKey {
	if sub.Handle && sub.Const {
		return ConstCacheKey
	}
	return CacheKey
}

// comparators returns the comparator cache for sub, building it on first use.
func comparators(sub typeinfo.Subtype) *comparatorCache {
	t := sub.Type
	key := cacheKeyFor(sub)
	if c, ok := t.UserData(key).(*comparatorCache); ok {
		return c
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if c, ok := t.UserData(key).(*comparatorCache); ok {
		return c
	}

	c := resolveComparators(t, sub.Handle && sub.Const)
	if reg := t.Registry(); reg != nil && !reg.HasCleanup(key) {
		reg.SetCleanup(key, cleanupComparators)
	}
	t.SetUserData(key, c)
	cacheBuilds.Add(1)

	Logger().Debug("comparator cache built",
		zap.String("type", t.Name()),
		zap.Bool("const", sub.Const),
		zap.Bool("equals", c.eqState == resolvedOne),
		zap.Bool("compare", c.cmpState == resolvedOne))
	return c
}

func cleanupComparators(t *typeinfo.Type, _ any) {
	Logger().Debug("comparator cache discarded", zap.String("type", t.Name()))
}

// resolveComparators scans t's single-parameter methods for opEquals and
// opCmp. With mustBeConst only read-only methods taking const arguments
// qualify.
func resolveComparators(t *typeinfo.Type, mustBeConst bool) *comparatorCache {
	c := &comparatorCache{}
	for _, m := range t.Methods() {
		if len(m.Params) != 1 {
			continue
		}
		if mustBeConst && !m.ReadOnly {
			continue
		}
		if m.ReturnsRef {
			continue
		}

		var isEq bool
		switch {
		case m.Name == opEquals && m.Return == typeinfo.ReturnBool:
			isEq = true
		case m.Name == opCmp && m.Return == typeinfo.ReturnInt32:
		default:
			continue
		}

		if !paramAccepts(m.Params[0], t, mustBeConst) {
			continue
		}

		if isEq {
			c.eq, c.eqState = record(c.eqState, m)
		} else {
			c.cmp, c.cmpState = record(c.cmpState, m)
		}
	}
	return c
}

func paramAccepts(p typeinfo.Param, t *typeinfo.Type, mustBeConst bool) bool {
	if p.Type != t {
		return false
	}
	switch {
	case p.Mode == typeinfo.ParamOutRef:
		return false
	case p.Mode.IsInRef():
		return !p.Handle && (!mustBeConst || p.Const)
	case p.Handle:
		return !mustBeConst || p.HandleToConst
	default:
		return false
	}
}

// record adds a candidate. A second candidate makes the resolution ambiguous
// for good.
func record(state resolution, m *typeinfo.Method) (*typeinfo.Method, resolution) {
	switch state {
	case resolvedNone:
		return m, resolvedOne
	default:
		return nil, resolvedAmbiguous
	}
}

// ordering returns the resolved opCmp or the error explaining its absence.
func (c *comparatorCache) ordering(sub typeinfo.Subtype) (*typeinfo.Method, error) {
	switch c.cmpState {
	case resolvedOne:
		return c.cmp, nil
	case resolvedAmbiguous:
		return nil, errors.AmbiguousComparator(errors.PhaseCompare, sub.String(), opCmp)
	default:
		return nil, errors.NoComparator(errors.PhaseCompare, sub.String(), opCmp)
	}
}

// equality returns the methods usable for equality: opEquals if resolved,
// otherwise opCmp. It fails when neither resolved.
func (c *comparatorCache) equality(sub typeinfo.Subtype) (eq, cmp *typeinfo.Method, err error) {
	if c.eqState == resolvedOne || c.cmpState == resolvedOne {
		return c.eq, c.cmp, nil
	}
	if c.eqState == resolvedAmbiguous || c.cmpState == resolvedAmbiguous {
		return nil, nil, errors.AmbiguousComparator(errors.PhaseCompare, sub.String(), opEquals+" or "+opCmp)
	}
	return nil, nil, errors.NoComparator(errors.PhaseCompare, sub.String(), opEquals+" or "+opCmp)
}
