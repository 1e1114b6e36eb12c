package typeinfo

// Visitor receives a reference held by an object being enumerated.
type Visitor func(t *Type, r Ref)

// Collectable is the protocol an external mark-and-sweep collector uses to
// find and break reference cycles.
type Collectable interface {
	// RefCount returns the object's current reference count.
	RefCount() int32
	// SetGCFlag marks the object. Any AddRef clears the mark.
	SetGCFlag()
	// GCFlag reports whether the mark is still set.
	GCFlag() bool
	// EnumReferences reports every reference the object holds.
	EnumReferences(visit Visitor)
	// ReleaseAllReferences drops every held reference to break a cycle.
	ReleaseAllReferences()
}

// Collector receives objects that may take part in reference cycles.
type Collector interface {
	Track(obj Collectable)
}

// Enumerator is implemented by factories of GC value types whose instances
// hold references of their own.
type Enumerator interface {
	EnumReferences(r Ref, visit Visitor)
	ReleaseReferences(r Ref)
}
