// Package heap stores the objects behind ValueObject and Handle array
// elements.
//
// A Store maps typeinfo.Ref values to Go values and counts references to
// each entry. Ref 0 is never handed out, so a zeroed array slot always reads
// as the null reference.
//
// ValueClass and RefClass bind a Go type to a Store and implement the
// factory and counter interfaces that typeinfo types require:
//
//	store := heap.NewStore()
//	points := heap.NewValueClass[Point](store)
//	pointType, err := points.Register(reg, "point")
//
// Observers subscribed to a Store receive an Event for every creation,
// retain, release, and drop.
package heap
