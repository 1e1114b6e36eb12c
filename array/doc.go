// Package array implements a resizable array whose element type is known only
// at run time.
//
// Each array stores a typeinfo.Subtype and derives the element ownership
// category from it once:
//
//   - Primitive elements live inline and are copied bytewise
//   - ValueObject slots hold a typeinfo.Ref to an instance owned by the slot
//     and managed through the type's Factory
//   - Handle slots hold a shared typeinfo.Ref counted through the type's
//     Counter; the zero Ref is null
//
// # Failure Safety
//
// Operations that construct elements either construct all of them or none.
// A failed PushBack, Insert, InsertRange, or AppendRange leaves the size and
// the existing elements untouched, and the array remains usable.
//
// # Comparison
//
// Sort, Find, Count, EraseValue, and Equal on object elements resolve the
// type's opEquals and opCmp methods once per type and cache the result on the
// type. Comparisons run through the registry's typeinfo.Engine, so scripted
// methods work the same as native ones.
//
// # Reentrancy
//
// Callbacks invoked while elements are visited (comparators, predicates,
// ForEach) may call back into the array. Reads and Set are allowed; any
// structural change fails with errors.ErrReentrant.
//
// # Garbage Collection
//
// Arrays of handles to GC types, or of GC value types whose factory
// implements typeinfo.Enumerator, are registered with the registry's
// collector and implement typeinfo.Collectable.
package array
