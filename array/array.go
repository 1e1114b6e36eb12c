package array

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	scriptarray "github.com/wippyai/script-array"
	"github.com/wippyai/script-array/errors"
	"github.com/wippyai/script-array/typeinfo"
)

// DefaultMaxElements caps the element count of arrays created with
// DefaultOptions.
const DefaultMaxElements = 1 << 30

// Options configures array construction.
type Options struct {
	// Allocator provides storage buffers. Defaults to
	// scriptarray.DefaultAllocator.
	Allocator scriptarray.Allocator
	// Logger receives debug output. Defaults to Logger().
	Logger *zap.Logger
	// MaxElements is the largest size or capacity an array may reach.
	// Zero only bounds the byte length of the buffer.
	MaxElements uint64
}

// DefaultOptions returns default array configuration.
func DefaultOptions() Options {
	return Options{
		Allocator:   scriptarray.DefaultAllocator,
		MaxElements: DefaultMaxElements,
	}
}

// Array is a resizable array of elements whose type is described at run
// time. Slots hold primitives inline; ValueObject and Handle slots hold a
// typeinfo.Ref, where the zero Ref is null.
//
// Arrays are not safe for concurrent mutation. Lock, Unlock, and TryLock let
// callers serialize their own transactions.
type Array struct {
	lc          lifecycle
	alloc       scriptarray.Allocator
	logger      *zap.Logger
	buf         []byte
	size        int
	capacity    int
	maxElements uint64
	refs        atomic.Int32
	enumerating atomic.Int32
	gcFlag      atomic.Bool
	destroyed   atomic.Bool
	tracked     bool
	mu          sync.Mutex
}

// New creates an empty array with default options.
func New(sub typeinfo.Subtype) (*Array, error) {
	return DefaultOptions().New(sub)
}

// NewSized creates an array of n default-constructed elements with default
// options.
func NewSized(sub typeinfo.Subtype, n int) (*Array, error) {
	return DefaultOptions().NewSized(sub, n)
}

// NewFilled creates an array of n copies of value with default options.
func NewFilled(sub typeinfo.Subtype, n int, value any) (*Array, error) {
	return DefaultOptions().NewFilled(sub, n, value)
}

// FromList creates an array from a list of values with default options.
func FromList(sub typeinfo.Subtype, values []any) (*Array, error) {
	return DefaultOptions().FromList(sub, values)
}

// New creates an empty array.
func (o Options) New(sub typeinfo.Subtype) (*Array, error) {
	a, err := o.create(sub)
	if err != nil {
		return nil, err
	}
	a.track()
	return a, nil
}

func (o Options) create(sub typeinfo.Subtype) (*Array, error) {
	tracked, err := Validate(sub)
	if err != nil {
		return nil, err
	}

	a := &Array{
		lc:          newLifecycle(sub),
		alloc:       o.Allocator,
		logger:      o.Logger,
		maxElements: o.MaxElements,
		tracked:     tracked,
	}
	if a.alloc == nil {
		a.alloc = scriptarray.DefaultAllocator
	}
	if a.logger == nil {
		a.logger = Logger()
	}
	a.refs.Store(1)
	sub.Type.AddRef()
	return a, nil
}

// NewSized creates an array of n default-constructed elements. Handle
// elements start null.
func (o Options) NewSized(sub typeinfo.Subtype, n int) (*Array, error) {
	a, err := o.create(sub)
	if err != nil {
		return nil, err
	}
	if err := a.Resize(n); err != nil {
		a.discard()
		return nil, err
	}
	a.track()
	return a, nil
}

// NewFilled creates an array of n copies of value.
func (o Options) NewFilled(sub typeinfo.Subtype, n int, value any) (*Array, error) {
	a, err := o.create(sub)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		a.discard()
		return nil, errors.InvalidInput(errors.PhaseConstruct, "negative element count")
	}
	err = a.withOperand("NewFilled", value, func(src []byte) error {
		if err := a.reserve(n); err != nil {
			return err
		}
		if err := a.lc.valueConstructN(a.buf, 0, n, src); err != nil {
			return err
		}
		a.size = n
		return nil
	})
	if err != nil {
		a.discard()
		return nil, err
	}
	a.track()
	return a, nil
}

// FromList creates an array holding values in order. Primitive values are
// stored directly, handles are acquired, and value objects are copied.
func (o Options) FromList(sub typeinfo.Subtype, values []any) (*Array, error) {
	a, err := o.create(sub)
	if err != nil {
		return nil, err
	}
	if err := a.reserve(len(values)); err != nil {
		a.discard()
		return nil, err
	}
	for _, v := range values {
		if err := a.PushBack(v); err != nil {
			a.discard()
			return nil, err
		}
	}
	a.track()
	return a, nil
}

// track registers a fully constructed array with the collector.
func (a *Array) track() {
	if !a.tracked {
		return
	}
	reg := a.lc.sub.Type.Registry()
	if reg == nil {
		return
	}
	if c := reg.Collector(); c != nil {
		c.Track(a)
	}
}

// discard destroys an array that failed construction and was never handed
// out.
func (a *Array) discard() {
	a.refs.Store(0)
	a.destroy()
}

// Subtype returns the element subtype.
func (a *Array) Subtype() typeinfo.Subtype { return a.lc.sub }

// Category returns the ownership category of the elements.
func (a *Array) Category() typeinfo.Category { return a.lc.cat }

// ElementSize returns the number of bytes per slot.
func (a *Array) ElementSize() int { return a.lc.size }

// Tracked reports whether the array was registered with a collector.
func (a *Array) Tracked() bool { return a.tracked }

func (a *Array) Size() int { return a.size }

func (a *Array) Capacity() int { return a.capacity }

func (a *Array) Empty() bool { return a.size == 0 }

// AddRef records another owner of the array and clears the GC mark.
func (a *Array) AddRef() int32 {
	a.gcFlag.Store(false)
	return a.refs.Add(1)
}

// Release drops an owner of the array. The last release destroys every
// element and frees the buffer.
func (a *Array) Release() int32 {
	a.gcFlag.Store(false)
	n := a.refs.Add(-1)
	if n == 0 {
		a.destroy()
	}
	return n
}

func (a *Array) destroy() {
	if a.destroyed.Swap(true) {
		return
	}
	victims := a.lc.detach(a.buf, 0, a.size)
	a.size = 0
	a.freeBuffer()
	a.lc.sub.Type.Release()
	a.lc.releaseAll(victims)
}

// Lock acquires the array's transaction lock. Array operations never take it
// themselves.
func (a *Array) Lock() { a.mu.Lock() }

func (a *Array) Unlock() { a.mu.Unlock() }

func (a *Array) TryLock() bool { return a.mu.TryLock() }

func (a *Array) String() string {
	return "array<" + a.lc.sub.String() + ">"
}
