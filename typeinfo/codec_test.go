package typeinfo

import (
	"errors"
	"math"
	"testing"
	"unicode/utf8"

	scerrors "github.com/wippyai/script-array/errors"
)

func TestEncodeDecode(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	point, _ := reg.RegisterValue("point", nopFactory{})

	tests := []struct {
		name string
		sub  Subtype
		in   any
		want any
	}{
		{"bool", Of(reg.Primitive(KindBool)), true, true},
		{"u8", Of(reg.Primitive(KindU8)), 200, uint8(200)},
		{"s8", Of(reg.Primitive(KindS8)), -5, int8(-5)},
		{"u16", Of(reg.Primitive(KindU16)), uint16(65535), uint16(65535)},
		{"s16", Of(reg.Primitive(KindS16)), int16(-300), int16(-300)},
		{"u32", Of(reg.Primitive(KindU32)), uint32(7), uint32(7)},
		{"s32", Of(reg.Primitive(KindS32)), int32(-7), int32(-7)},
		{"u64", Of(reg.Primitive(KindU64)), uint64(math.MaxUint64), uint64(math.MaxUint64)},
		{"s64", Of(reg.Primitive(KindS64)), int64(math.MinInt64), int64(math.MinInt64)},
		{"f32", Of(reg.Primitive(KindF32)), 1.5, float32(1.5)},
		{"f64", Of(reg.Primitive(KindF64)), 3, float64(3)},
		{"char", Of(reg.Primitive(KindChar)), 'x', 'x'},
		{"char max", Of(reg.Primitive(KindChar)), rune(utf8.MaxRune), rune(utf8.MaxRune)},
		{"value ref", Of(point), Ref(9), Ref(9)},
		{"value nil", Of(point), nil, Null},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.sub.SlotSize())
			if err := EncodeInto(buf, tt.sub, tt.in); err != nil {
				t.Fatalf("EncodeInto: %v", err)
			}
			if got := Decode(tt.sub, buf); got != tt.want {
				t.Errorf("Decode = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	point, _ := reg.RegisterValue("point", nopFactory{})

	tests := []struct {
		name string
		sub  Subtype
		in   any
		kind scerrors.Kind
	}{
		{"u8 overflow", Of(reg.Primitive(KindU8)), 256, scerrors.KindOverflow},
		{"u8 negative", Of(reg.Primitive(KindU8)), -1, scerrors.KindOverflow},
		{"char negative", Of(reg.Primitive(KindChar)), -1, scerrors.KindInvalidInput},
		{"char surrogate", Of(reg.Primitive(KindChar)), 0xD800, scerrors.KindInvalidInput},
		{"char past max", Of(reg.Primitive(KindChar)), utf8.MaxRune + 1, scerrors.KindInvalidInput},
		{"s8 overflow", Of(reg.Primitive(KindS8)), 128, scerrors.KindOverflow},
		{"f32 overflow", Of(reg.Primitive(KindF32)), math.MaxFloat64, scerrors.KindOverflow},
		{"bool from int", Of(reg.Primitive(KindBool)), 1, scerrors.KindTypeMismatch},
		{"s32 from string", Of(reg.Primitive(KindS32)), "1", scerrors.KindTypeMismatch},
		{"object from int", Of(point), 5, scerrors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 8)
			err := EncodeInto(buf, tt.sub, tt.in)
			var e *scerrors.Error
			if !errors.As(err, &e) || e.Kind != tt.kind {
				t.Fatalf("err = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestComparePrimitive(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	enc := func(k Kind, v any) []byte {
		buf := make([]byte, 8)
		if err := EncodeInto(buf, Of(reg.Primitive(k)), v); err != nil {
			t.Fatal(err)
		}
		return buf
	}

	tests := []struct {
		name string
		kind Kind
		a, b any
		want int
	}{
		{"s32 less", KindS32, -3, 2, -1},
		{"s8 sign", KindS8, -1, 1, -1},
		{"u8 high bit", KindU8, 255, 1, 1},
		{"u64 equal", KindU64, uint64(10), uint64(10), 0},
		{"f64 order", KindF64, 2.5, -1.0, 1},
		{"f32 nan first", KindF32, math.NaN(), -1.0, -1},
		{"f64 nan nan", KindF64, math.NaN(), math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePrimitive(tt.kind, enc(tt.kind, tt.a), enc(tt.kind, tt.b)); got != tt.want {
				t.Errorf("ComparePrimitive = %d, want %d", got, tt.want)
			}
		})
	}

	nan := enc(KindF64, math.NaN())
	if EqualPrimitive(KindF64, nan, nan) {
		t.Error("NaN should not equal itself")
	}
	if !EqualPrimitive(KindS16, enc(KindS16, -9), enc(KindS16, -9)) {
		t.Error("equal s16 values should compare equal")
	}
}
