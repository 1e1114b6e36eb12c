package array

import (
	"testing"

	"github.com/wippyai/script-array/typeinfo"
)

// BenchmarkPushBack_Primitive measures amortized append into a growing array
func BenchmarkPushBack_Primitive(b *testing.B) {
	reg := typeinfo.NewRegistry(typeinfo.Options{})
	sub := typeinfo.Of(reg.Primitive(typeinfo.KindS32))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := New(sub)
		if err != nil {
			b.Fatal(err)
		}
		for j := int32(0); j < 256; j++ {
			if err := a.PushBack(j); err != nil {
				b.Fatal(err)
			}
		}
		a.Release()
	}
}

// BenchmarkSort_Primitive sorts a reversed array of 1024 ints
func BenchmarkSort_Primitive(b *testing.B) {
	reg := typeinfo.NewRegistry(typeinfo.Options{})
	a, err := NewSized(typeinfo.Of(reg.Primitive(typeinfo.KindS32)), 1024)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Release()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for j := 0; j < a.Size(); j++ {
			_ = a.Set(j, int32(a.Size()-j))
		}
		b.StartTimer()
		if err := a.Sort(0, a.Size(), true); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSort_ValueObjects sorts boxes through the opCmp method
func BenchmarkSort_ValueObjects(b *testing.B) {
	f := newFixture(b)
	a, err := New(typeinfo.Of(f.boxType))
	if err != nil {
		b.Fatal(err)
	}
	defer a.Release()
	for j := 0; j < 256; j++ {
		r, _ := f.boxes.Make(256 - j)
		if err := a.PushBack(r); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := a.Sort(0, a.Size(), i%2 == 0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFind_Handles scans handles that share one ref
func BenchmarkFind_Handles(b *testing.B) {
	f := newFixture(b)
	n, err := f.nodes.New(&node{val: 1})
	if err != nil {
		b.Fatal(err)
	}
	defer f.nodes.Release(n)

	a, err := NewFilled(typeinfo.HandleOf(f.nodeType), 512, n)
	if err != nil {
		b.Fatal(err)
	}
	defer a.Release()
	if err := a.Set(511, nil); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if idx, err := a.FindByRef(0, 0); err != nil || idx != 511 {
			b.Fatalf("FindByRef = %d, %v", idx, err)
		}
	}
}
