package array

import (
	"errors"
	"testing"

	"github.com/wippyai/script-array/heap"
	"github.com/wippyai/script-array/typeinfo"
)

var errBoom = errors.New("boom")

// node is a reference type whose instances may own an array.
type node struct {
	arr *Array
	val int
}

func (n *node) Drop() {
	if n.arr != nil {
		arr := n.arr
		n.arr = nil
		arr.Release()
	}
}

type testCollector struct {
	tracked []typeinfo.Collectable
}

func (c *testCollector) Track(obj typeinfo.Collectable) {
	c.tracked = append(c.tracked, obj)
}

type fixture struct {
	reg       *typeinfo.Registry
	store     *heap.Store
	collector *testCollector
	ints      typeinfo.Subtype
	boxes     *heap.ValueClass[int]
	boxType   *typeinfo.Type
	nodes     *heap.RefClass[*node]
	nodeType  *typeinfo.Type
	// failAfter makes the box clone fail once this many clones succeeded.
	// Negative disables failures.
	failAfter int
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	f := &fixture{
		collector: &testCollector{},
		store:     heap.NewStore(),
		failAfter: -1,
	}
	f.reg = typeinfo.NewRegistry(typeinfo.Options{Collector: f.collector})
	f.ints = typeinfo.Of(f.reg.Primitive(typeinfo.KindS32))

	f.boxes = heap.NewValueClass[int](f.store)
	f.boxes.Clone = func(v int) (int, error) {
		if f.failAfter == 0 {
			return 0, errBoom
		}
		if f.failAfter > 0 {
			f.failAfter--
		}
		return v, nil
	}
	var err error
	if f.boxType, err = f.boxes.Register(f.reg, "box"); err != nil {
		t.Fatalf("register box: %v", err)
	}
	f.boxType.AddMethod(compareMethod(f.boxType, typeinfo.ParamInRef, f.boxValue))
	f.boxType.AddMethod(equalsMethod(f.boxType, f.boxValue))

	f.nodes = heap.NewRefClass[*node](f.store)
	if f.nodeType, err = f.nodes.Register(f.reg, "node", typeinfo.WithGC()); err != nil {
		t.Fatalf("register node: %v", err)
	}
	f.nodeType.AddMethod(compareMethod(f.nodeType, typeinfo.ParamInRef, f.nodeValue))
	return f
}

// valueType registers another int value type backed by the fixture store.
func (f *fixture) valueType(t *testing.T, name string) *typeinfo.Type {
	t.Helper()
	typ, err := heap.NewValueClass[int](f.store).Register(f.reg, name)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return typ
}

func (f *fixture) boxValue(r typeinfo.Ref) int {
	v, _ := f.boxes.Get(r)
	return v
}

func (f *fixture) nodeValue(r typeinfo.Ref) int {
	n, ok := f.nodes.Get(r)
	if !ok {
		return 0
	}
	return n.val
}

// box makes a standalone box that is destroyed when the test ends.
func (f *fixture) box(t *testing.T, v int) typeinfo.Ref {
	t.Helper()
	r, err := f.boxes.Make(v)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.boxes.Destroy(r) })
	return r
}

func (f *fixture) node(t *testing.T, v int) typeinfo.Ref {
	t.Helper()
	r, err := f.nodes.New(&node{val: v})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func compareMethod(t *typeinfo.Type, mode typeinfo.ParamMode, value func(typeinfo.Ref) int) *typeinfo.Method {
	return &typeinfo.Method{
		Name:     "opCmp",
		Return:   typeinfo.ReturnInt32,
		ReadOnly: true,
		Params:   []typeinfo.Param{{Type: t, Mode: mode, Const: true}},
		Native: func(this, arg typeinfo.Ref) (uint64, error) {
			x, y := value(this), value(arg)
			switch {
			case x < y:
				return typeinfo.Int32Result(-1), nil
			case x > y:
				return typeinfo.Int32Result(1), nil
			default:
				return typeinfo.Int32Result(0), nil
			}
		},
	}
}

func equalsMethod(t *typeinfo.Type, value func(typeinfo.Ref) int) *typeinfo.Method {
	return &typeinfo.Method{
		Name:     "opEquals",
		Return:   typeinfo.ReturnBool,
		ReadOnly: true,
		Params:   []typeinfo.Param{{Type: t, Mode: typeinfo.ParamInRef, Const: true}},
		Native: func(this, arg typeinfo.Ref) (uint64, error) {
			return typeinfo.BoolResult(value(this) == value(arg)), nil
		},
	}
}

// mustArray wraps a constructor call: mustArray(t)(New(sub)).
func mustArray(t testing.TB) func(*Array, error) *Array {
	return func(a *Array, err error) *Array {
		t.Helper()
		if err != nil {
			t.Fatalf("create array: %v", err)
		}
		return a
	}
}

func intArray(t *testing.T, f *fixture, values ...int32) *Array {
	t.Helper()
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	return mustArray(t)(FromList(f.ints, list))
}

func ints(t *testing.T, a *Array) []int32 {
	t.Helper()
	out := make([]int32, 0, a.Size())
	for _, v := range a.Values() {
		out = append(out, v.(int32))
	}
	return out
}

// boxValues decodes a box array into the ints its elements hold.
func (f *fixture) boxValues(a *Array) []int {
	out := make([]int, 0, a.Size())
	for _, v := range a.Values() {
		out = append(out, f.boxValue(v.(typeinfo.Ref)))
	}
	return out
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assertInvariants checks size against capacity and that the spare tail is
// zeroed.
func assertInvariants(t *testing.T, a *Array) {
	t.Helper()
	if a.size > a.capacity {
		t.Fatalf("size %d exceeds capacity %d", a.size, a.capacity)
	}
	if len(a.buf) != a.capacity*a.lc.size {
		t.Fatalf("buffer length %d, want %d", len(a.buf), a.capacity*a.lc.size)
	}
	for i, b := range a.buf[a.size*a.lc.size:] {
		if b != 0 {
			t.Fatalf("spare byte %d is %#x, want 0", a.size*a.lc.size+i, b)
		}
	}
}
