package scriptarray

import (
	"sync/atomic"

	"github.com/wippyai/script-array/errors"
)

// Allocator provides backing buffers for array storage.
// Returned buffers must be zeroed.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// LimitAllocator allocates from the Go heap with an optional byte budget.
// Limit 0 means unlimited.
type LimitAllocator struct {
	Limit int64
	inUse atomic.Int64
}

// NewLimitAllocator creates an allocator that fails once more than limit
// bytes are outstanding.
func NewLimitAllocator(limit int64) *LimitAllocator {
	return &LimitAllocator{Limit: limit}
}

// Alloc returns a zeroed buffer of size bytes.
func (a *LimitAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.OutOfMemory(errors.PhaseAlloc, size, "negative size")
	}
	if size == 0 {
		return nil, nil
	}
	n := a.inUse.Add(int64(size))
	if a.Limit > 0 && n > a.Limit {
		a.inUse.Add(-int64(size))
		return nil, errors.OutOfMemory(errors.PhaseAlloc, size, "allocator limit reached")
	}
	return make([]byte, size), nil
}

// Free returns buf's bytes to the budget.
func (a *LimitAllocator) Free(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	a.inUse.Add(-int64(cap(buf)))
}

// InUse returns the number of outstanding bytes.
func (a *LimitAllocator) InUse() int64 {
	return a.inUse.Load()
}

// DefaultAllocator is the unlimited heap allocator shared by arrays created
// without an explicit allocator.
var DefaultAllocator Allocator = NewLimitAllocator(0)
