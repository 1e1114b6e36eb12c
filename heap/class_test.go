package heap

import (
	"errors"
	"testing"

	"github.com/wippyai/script-array/typeinfo"
)

type point struct {
	X, Y int
}

func TestValueClass(t *testing.T) {
	reg := typeinfo.NewRegistry(typeinfo.DefaultOptions())
	store := NewStore()
	points := NewValueClass[point](store)
	points.New = func() (point, error) { return point{X: 1, Y: 1}, nil }

	typ, err := points.Register(reg, "point")
	if err != nil {
		t.Fatal(err)
	}
	if typ.Factory() == nil {
		t.Fatal("registered type has no factory")
	}
	if points.Type() != typ {
		t.Fatal("Type() does not return the registered type")
	}

	r, err := points.Construct()
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := points.Get(r); p != (point{1, 1}) {
		t.Fatalf("Construct produced %v", p)
	}
	if id, _ := store.TypeID(r); id != typ.ID() {
		t.Errorf("entry type ID = %d, want %d", id, typ.ID())
	}

	src, _ := points.Make(point{5, 6})
	cp, err := points.Copy(src)
	if err != nil {
		t.Fatal(err)
	}
	if cp == src {
		t.Fatal("Copy returned the source ref")
	}
	if p, _ := points.Get(cp); p != (point{5, 6}) {
		t.Fatalf("Copy produced %v", p)
	}

	if err := points.Assign(r, src); err != nil {
		t.Fatal(err)
	}
	if p, _ := points.Get(r); p != (point{5, 6}) {
		t.Fatalf("Assign produced %v", p)
	}

	points.Destroy(r)
	points.Destroy(cp)
	points.Destroy(src)
	if store.Len() != 0 {
		t.Fatalf("Len = %d after destroying every instance", store.Len())
	}
}

func TestValueClass_Failures(t *testing.T) {
	store := NewStore()
	boom := errors.New("boom")

	points := NewValueClass[point](store)
	points.New = func() (point, error) { return point{}, boom }
	points.Clone = func(point) (point, error) { return point{}, boom }

	if _, err := points.Construct(); !errors.Is(err, boom) {
		t.Errorf("Construct err = %v", err)
	}

	src, _ := points.Make(point{})
	if _, err := points.Copy(src); !errors.Is(err, boom) {
		t.Errorf("Copy err = %v", err)
	}
	if _, err := points.Copy(typeinfo.Null); err == nil {
		t.Error("Copy from null should fail")
	}
	if err := points.Assign(99, src); err == nil {
		t.Error("Assign with failing clone should fail")
	}
	if store.Len() != 1 {
		t.Errorf("failed operations leaked entries: Len = %d", store.Len())
	}
}

func TestValueClass_References(t *testing.T) {
	store := NewStore()
	type box struct{ child typeinfo.Ref }

	boxes := NewValueClass[box](store)
	var released []typeinfo.Ref
	boxes.Refs = func(b box, visit typeinfo.Visitor) { visit(nil, b.child) }
	boxes.ReleaseRefs = func(b box) { released = append(released, b.child) }

	r, _ := boxes.Make(box{child: 42})

	var seen []typeinfo.Ref
	boxes.EnumReferences(r, func(_ *typeinfo.Type, ref typeinfo.Ref) { seen = append(seen, ref) })
	if len(seen) != 1 || seen[0] != 42 {
		t.Errorf("EnumReferences saw %v", seen)
	}

	boxes.ReleaseReferences(r)
	if len(released) != 1 || released[0] != 42 {
		t.Errorf("ReleaseReferences released %v", released)
	}
}

func TestRefClass(t *testing.T) {
	reg := typeinfo.NewRegistry(typeinfo.DefaultOptions())
	store := NewStore()
	nodes := NewRefClass[string](store)

	typ, err := nodes.Register(reg, "node", typeinfo.WithGC())
	if err != nil {
		t.Fatal(err)
	}
	if typ.Counter() == nil || !typ.IsGC() {
		t.Fatal("node type not registered as a GC reference type")
	}

	r, _ := nodes.New("a")
	nodes.AddRef(r)
	if n := nodes.RefCount(r); n != 2 {
		t.Fatalf("RefCount = %d, want 2", n)
	}
	nodes.Release(r)
	if v, ok := nodes.Get(r); !ok || v != "a" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	nodes.Release(r)
	if _, ok := nodes.Get(r); ok {
		t.Fatal("node survived its last release")
	}
}
