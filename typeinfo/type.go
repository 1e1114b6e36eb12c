package typeinfo

import (
	"sync"
	"sync/atomic"

	"go.bytecodealliance.org/wit"
)

// ID uniquely identifies a type within its registry.
type ID uint32

// Flags describe how instances of a type are owned.
type Flags uint32

const (
	// FlagValue marks value types: each slot exclusively owns an instance
	// created through the type's Factory.
	FlagValue Flags = 1 << iota
	// FlagRef marks reference types: instances are shared through handles
	// and counted by the type's Counter.
	FlagRef
	// FlagGC marks types whose instances may take part in reference cycles.
	FlagGC
)

// Category is the ownership category of an array element.
type Category uint8

const (
	CategoryPrimitive Category = iota
	CategoryValue
	CategoryHandle
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryValue:
		return "value"
	case CategoryHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// UserDataKey identifies an entry in a type's user data side table.
type UserDataKey uintptr

// Type is a runtime type descriptor.
type Type struct {
	registry *Registry
	factory  Factory
	counter  Counter
	witType  wit.Type
	userData map[UserDataKey]any
	name     string
	methods  []*Method
	refs     atomic.Int32
	methodMu sync.RWMutex
	userMu   sync.RWMutex
	id       ID
	flags    Flags
	size     uint32
	align    uint32
	kind     Kind
}

func (t *Type) Name() string { return t.name }

func (t *Type) ID() ID { return t.id }

func (t *Type) Kind() Kind { return t.kind }

func (t *Type) Flags() Flags { return t.flags }

// Size returns the size of the type's inline representation. Object types
// are represented by a Ref.
func (t *Type) Size() uint32 { return t.size }

func (t *Type) Align() uint32 { return t.align }

// Registry returns the registry that owns the type.
func (t *Type) Registry() *Registry { return t.registry }

// Factory returns the instance factory of a value type, or nil.
func (t *Type) Factory() Factory { return t.factory }

// Counter returns the reference counter of a reference type, or nil.
func (t *Type) Counter() Counter { return t.counter }

// WIT returns the WIT type the descriptor was registered from, or nil.
func (t *Type) WIT() wit.Type { return t.witType }

func (t *Type) IsPrimitive() bool { return t.kind.IsPrimitive() }

// IsGC reports whether instances may take part in reference cycles.
func (t *Type) IsGC() bool { return t.flags&FlagGC != 0 }

// AddMethod exposes a method on the type. Methods are expected to be added
// during registration, before any array resolves comparators for the type.
func (t *Type) AddMethod(m *Method) {
	t.methodMu.Lock()
	t.methods = append(t.methods, m)
	t.methodMu.Unlock()
}

// Methods returns the methods exposed by the type.
func (t *Type) Methods() []*Method {
	t.methodMu.RLock()
	defer t.methodMu.RUnlock()
	out := make([]*Method, len(t.methods))
	copy(out, t.methods)
	return out
}

// SetUserData stores value under key and returns the previous value.
func (t *Type) SetUserData(key UserDataKey, value any) any {
	t.userMu.Lock()
	defer t.userMu.Unlock()
	if t.userData == nil {
		t.userData = make(map[UserDataKey]any)
	}
	old := t.userData[key]
	t.userData[key] = value
	return old
}

// UserData returns the value stored under key, or nil.
func (t *Type) UserData(key UserDataKey) any {
	t.userMu.RLock()
	defer t.userMu.RUnlock()
	return t.userData[key]
}

// AddRef records a holder of the descriptor. A referenced type cannot be
// unregistered.
func (t *Type) AddRef() int32 { return t.refs.Add(1) }

// Release drops a holder recorded with AddRef.
func (t *Type) Release() int32 { return t.refs.Add(-1) }

// RefCount returns the number of holders of the descriptor.
func (t *Type) RefCount() int32 { return t.refs.Load() }

func (t *Type) String() string { return t.name }

// Subtype is what an array stores: a type plus handle qualifiers.
type Subtype struct {
	Type *Type
	// Handle stores shared references to a reference type.
	Handle bool
	// Const marks a handle to a read-only object.
	Const bool
}

// Of returns the subtype storing values of t.
func Of(t *Type) Subtype { return Subtype{Type: t} }

// HandleOf returns the subtype storing handles to t.
func HandleOf(t *Type) Subtype { return Subtype{Type: t, Handle: true} }

// ConstHandleOf returns the subtype storing handles to read-only t.
func ConstHandleOf(t *Type) Subtype { return Subtype{Type: t, Handle: true, Const: true} }

// Category returns the ownership category of elements of s.
func (s Subtype) Category() Category {
	switch {
	case s.Handle:
		return CategoryHandle
	case s.Type != nil && s.Type.IsPrimitive():
		return CategoryPrimitive
	default:
		return CategoryValue
	}
}

// SlotSize returns the number of bytes one element occupies.
func (s Subtype) SlotSize() int {
	if s.Category() == CategoryPrimitive {
		return int(s.Type.size)
	}
	return RefSize
}

func (s Subtype) String() string {
	if s.Type == nil {
		return "<nil>"
	}
	name := s.Type.name
	if s.Handle {
		name += "@"
		if s.Const {
			name = "const " + name
		}
	}
	return name
}
