package typeinfo

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/script-array/errors"
)

// ReadRef reads the reference stored in an object slot.
func ReadRef(slot []byte) Ref {
	return Ref(binary.LittleEndian.Uint32(slot))
}

// WriteRef stores r in an object slot.
func WriteRef(slot []byte, r Ref) {
	binary.LittleEndian.PutUint32(slot, uint32(r))
}

// EncodeInto writes the Go value v into the slot bytes dst of subtype s.
// Primitive kinds accept Go numbers that fit the kind; object subtypes
// accept a Ref or nil (the null reference).
func EncodeInto(dst []byte, s Subtype, v any) error {
	if s.Category() != CategoryPrimitive {
		switch r := v.(type) {
		case nil:
			WriteRef(dst, Null)
		case Ref:
			WriteRef(dst, r)
		default:
			return mismatch(s, v)
		}
		return nil
	}

	k := s.Type.kind
	switch k {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(s, v)
		}
		dst[0] = 0
		if b {
			dst[0] = 1
		}
		return nil
	case KindF32:
		f, ok := asFloat(v)
		if !ok {
			return mismatch(s, v)
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return errors.Overflow(errors.PhaseEncode, v, k.String())
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(f)))
		return nil
	case KindF64:
		f, ok := asFloat(v)
		if !ok {
			return mismatch(s, v)
		}
		binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
		return nil
	}

	if k == KindChar {
		n, ok := asInt(v)
		if !ok {
			return mismatch(s, v)
		}
		if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				TypeName(k.String()).
				Value(v).
				Detail("%v is not a unicode scalar value", v).
				Build()
		}
		putUint(dst, k.Size(), uint64(n))
		return nil
	}

	if k.IsSigned() {
		n, ok := asInt(v)
		if !ok {
			return mismatch(s, v)
		}
		bits := k.Size() * 8
		lo, hi := -int64(1)<<(bits-1), int64(1)<<(bits-1)-1
		if bits == 64 {
			lo, hi = math.MinInt64, math.MaxInt64
		}
		if n < lo || n > hi {
			return errors.Overflow(errors.PhaseEncode, v, k.String())
		}
		putUint(dst, k.Size(), uint64(n))
		return nil
	}

	n, ok := asUint(v)
	if !ok {
		if _, isInt := asInt(v); isInt {
			return errors.Overflow(errors.PhaseEncode, v, k.String())
		}
		return mismatch(s, v)
	}
	if bits := k.Size() * 8; bits < 64 && n >= uint64(1)<<bits {
		return errors.Overflow(errors.PhaseEncode, v, k.String())
	}
	putUint(dst, k.Size(), n)
	return nil
}

// Decode reads the slot bytes src of subtype s into a Go value. Primitive
// kinds decode to their natural Go type; object subtypes decode to a Ref.
func Decode(s Subtype, src []byte) any {
	if s.Category() != CategoryPrimitive {
		return ReadRef(src)
	}
	switch s.Type.kind {
	case KindBool:
		return src[0] != 0
	case KindU8:
		return src[0]
	case KindS8:
		return int8(src[0])
	case KindU16:
		return binary.LittleEndian.Uint16(src)
	case KindS16:
		return int16(binary.LittleEndian.Uint16(src))
	case KindU32:
		return binary.LittleEndian.Uint32(src)
	case KindS32:
		return int32(binary.LittleEndian.Uint32(src))
	case KindU64:
		return binary.LittleEndian.Uint64(src)
	case KindS64:
		return int64(binary.LittleEndian.Uint64(src))
	case KindF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(src))
	case KindF64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src))
	case KindChar:
		return rune(binary.LittleEndian.Uint32(src))
	default:
		return nil
	}
}

// ComparePrimitive orders two primitive slots of kind k. Floats order NaN
// before every other value.
func ComparePrimitive(k Kind, a, b []byte) int {
	switch {
	case k.IsFloat():
		x, y := floatAt(k, a), floatAt(k, b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		case x == y:
			return 0
		}
		// at least one NaN
		xn, yn := math.IsNaN(x), math.IsNaN(y)
		switch {
		case xn && yn:
			return 0
		case xn:
			return -1
		default:
			return 1
		}
	case k.IsSigned():
		x, y := signedAt(k, a), signedAt(k, b)
		return cmpOrdered(x, y)
	default:
		x, y := unsignedAt(k, a), unsignedAt(k, b)
		return cmpOrdered(x, y)
	}
}

// EqualPrimitive reports whether two primitive slots of kind k hold equal
// values. NaN is not equal to itself.
func EqualPrimitive(k Kind, a, b []byte) bool {
	if k.IsFloat() {
		return floatAt(k, a) == floatAt(k, b)
	}
	n := k.Size()
	for i := uint32(0); i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cmpOrdered[T int64 | uint64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func floatAt(k Kind, b []byte) float64 {
	if k == KindF32 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func signedAt(k Kind, b []byte) int64 {
	switch k.Size() {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return int64(binary.LittleEndian.Uint64(b))
	}
}

func unsignedAt(k Kind, b []byte) uint64 {
	switch k.Size() {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func putUint(dst []byte, size uint32, n uint64) {
	switch size {
	case 1:
		dst[0] = byte(n)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(n))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(n))
	default:
		binary.LittleEndian.PutUint64(dst, n)
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func mismatch(s Subtype, v any) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), s.String())
}
