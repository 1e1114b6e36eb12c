package typeinfo

// Factory creates, copies, assigns, and destroys instances of a value type.
// Every instance is exclusively owned by the slot holding its Ref.
type Factory interface {
	// Construct creates a default-initialized instance.
	Construct() (Ref, error)
	// Copy creates a new instance initialized from src.
	Copy(src Ref) (Ref, error)
	// Assign overwrites dst with the contents of src.
	Assign(dst, src Ref) error
	// Destroy releases an instance. Destroy is never called with Null.
	Destroy(r Ref)
}

// Counter manages the shared references held by handles.
type Counter interface {
	// AddRef acquires a reference. AddRef is never called with Null.
	AddRef(r Ref)
	// Release drops a reference. Release is never called with Null.
	Release(r Ref)
}
