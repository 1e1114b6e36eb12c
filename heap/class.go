package heap

import (
	"fmt"

	"github.com/wippyai/script-array/typeinfo"
)

// ValueClass manages instances of a value type in a Store. It implements
// typeinfo.Factory and typeinfo.Enumerator.
type ValueClass[T any] struct {
	store *Store
	typ   *typeinfo.Type

	// New creates a default instance. Nil uses the zero value of T.
	New func() (T, error)
	// Clone copies an instance. Nil copies by assignment.
	Clone func(T) (T, error)
	// Refs reports references held by an instance to the collector.
	Refs func(T, typeinfo.Visitor)
	// ReleaseRefs drops the references held by an instance.
	ReleaseRefs func(T)
}

// NewValueClass creates a value class backed by store.
func NewValueClass[T any](store *Store) *ValueClass[T] {
	return &ValueClass[T]{store: store}
}

// Register registers the class as a value type.
func (c *ValueClass[T]) Register(reg *typeinfo.Registry, name string, opts ...typeinfo.TypeOption) (*typeinfo.Type, error) {
	t, err := reg.RegisterValue(name, c, opts...)
	if err != nil {
		return nil, err
	}
	c.typ = t
	return t, nil
}

// Type returns the registered type, or nil before Register.
func (c *ValueClass[T]) Type() *typeinfo.Type { return c.typ }

func (c *ValueClass[T]) typeID() typeinfo.ID {
	if c.typ == nil {
		return 0
	}
	return c.typ.ID()
}

// Make stores v as a new instance.
func (c *ValueClass[T]) Make(v T) (typeinfo.Ref, error) {
	return c.store.New(c.typeID(), v)
}

// Get returns the instance stored under r.
func (c *ValueClass[T]) Get(r typeinfo.Ref) (T, bool) {
	v, ok := c.store.Get(r)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set replaces the instance stored under r.
func (c *ValueClass[T]) Set(r typeinfo.Ref, v T) bool {
	return c.store.Set(r, v)
}

func (c *ValueClass[T]) Construct() (typeinfo.Ref, error) {
	var v T
	if c.New != nil {
		var err error
		if v, err = c.New(); err != nil {
			return typeinfo.Null, err
		}
	}
	return c.Make(v)
}

func (c *ValueClass[T]) Copy(src typeinfo.Ref) (typeinfo.Ref, error) {
	v, err := c.clone(src)
	if err != nil {
		return typeinfo.Null, err
	}
	return c.Make(v)
}

func (c *ValueClass[T]) Assign(dst, src typeinfo.Ref) error {
	if dst == src {
		return nil
	}
	v, err := c.clone(src)
	if err != nil {
		return err
	}
	if !c.store.Set(dst, v) {
		return fmt.Errorf("assign to invalid ref %d", dst)
	}
	return nil
}

func (c *ValueClass[T]) Destroy(r typeinfo.Ref) {
	c.store.Release(r)
}

func (c *ValueClass[T]) EnumReferences(r typeinfo.Ref, visit typeinfo.Visitor) {
	if c.Refs == nil {
		return
	}
	if v, ok := c.Get(r); ok {
		c.Refs(v, visit)
	}
}

func (c *ValueClass[T]) ReleaseReferences(r typeinfo.Ref) {
	if c.ReleaseRefs == nil {
		return
	}
	if v, ok := c.Get(r); ok {
		c.ReleaseRefs(v)
	}
}

func (c *ValueClass[T]) clone(src typeinfo.Ref) (T, error) {
	v, ok := c.Get(src)
	if !ok {
		return v, fmt.Errorf("copy from invalid ref %d", src)
	}
	if c.Clone == nil {
		return v, nil
	}
	return c.Clone(v)
}

// RefClass manages shared instances of a reference type in a Store. It
// implements typeinfo.Counter.
type RefClass[T any] struct {
	store *Store
	typ   *typeinfo.Type
}

// NewRefClass creates a reference class backed by store.
func NewRefClass[T any](store *Store) *RefClass[T] {
	return &RefClass[T]{store: store}
}

// Register registers the class as a reference type.
func (c *RefClass[T]) Register(reg *typeinfo.Registry, name string, opts ...typeinfo.TypeOption) (*typeinfo.Type, error) {
	t, err := reg.RegisterRef(name, c, opts...)
	if err != nil {
		return nil, err
	}
	c.typ = t
	return t, nil
}

// Type returns the registered type, or nil before Register.
func (c *RefClass[T]) Type() *typeinfo.Type { return c.typ }

// New stores v and returns a ref owned by the caller.
func (c *RefClass[T]) New(v T) (typeinfo.Ref, error) {
	var id typeinfo.ID
	if c.typ != nil {
		id = c.typ.ID()
	}
	return c.store.New(id, v)
}

// Get returns the instance behind r.
func (c *RefClass[T]) Get(r typeinfo.Ref) (T, bool) {
	v, ok := c.store.Get(r)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// RefCount returns the reference count of r.
func (c *RefClass[T]) RefCount(r typeinfo.Ref) int32 {
	return c.store.RefCount(r)
}

func (c *RefClass[T]) AddRef(r typeinfo.Ref) {
	c.store.AddRef(r)
}

func (c *RefClass[T]) Release(r typeinfo.Ref) {
	c.store.Release(r)
}
