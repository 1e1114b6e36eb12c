// Package scriptarray provides a runtime-typed resizable array shared between
// a Go host and an embedded script runtime.
//
// The element type of an array is not known at compile time. It is described
// by a runtime type descriptor and falls into one of three ownership
// categories that decide how each slot is stored and managed:
//
//   - Primitive: the value lives inline in the slot and is copied bytewise
//   - ValueObject: the slot references a heap object owned by the array
//   - Handle: the slot holds a shared, reference-counted handle
//
// # Architecture Overview
//
//	scriptarray/         Root package with the storage Allocator
//	├── array/           The container: storage, lifecycle, search, sort, GC
//	├── typeinfo/        Runtime type descriptors, methods, registry, WIT types
//	├── heap/            Object store backing ValueObject and Handle elements
//	├── script/          wazero-backed execution of scripted methods
//	├── errors/          Structured error types
//	└── cmd/arrayview/   Interactive array inspector
//
// # Quick Start
//
//	reg := typeinfo.NewRegistry(typeinfo.DefaultOptions())
//	i32 := reg.Primitive(typeinfo.KindS32)
//
//	arr, err := array.New(typeinfo.Of(i32))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer arr.Release()
//
//	arr.PushBack(int32(5))
//	arr.PushBack(int32(3))
//	arr.Sort(0, arr.Size(), true)
//
// # Thread Safety
//
// Arrays are not safe for concurrent mutation. Callers composing several
// operations into one transaction use Lock/Unlock. Reference counting of the
// array object itself is atomic and may be shared across goroutines.
//
// # Garbage Collection
//
// Arrays whose elements can form reference cycles are registered with the
// collector configured on the type registry. The collector drives them only
// through the typeinfo.Collectable protocol.
package scriptarray
