package typeinfo

// Kind identifies the value representation of a type.
// Every kind up to KindChar is a primitive stored inline in array slots.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindChar
	KindObject
)

var kindNames = [...]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindS8:     "s8",
	KindU16:    "u16",
	KindS16:    "s16",
	KindU32:    "u32",
	KindS32:    "s32",
	KindU64:    "u64",
	KindS64:    "s64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindChar:   "char",
	KindObject: "object",
}

var kindSizes = [...]uint32{
	KindBool:   1,
	KindU8:     1,
	KindS8:     1,
	KindU16:    2,
	KindS16:    2,
	KindU32:    4,
	KindS32:    4,
	KindU64:    8,
	KindS64:    8,
	KindF32:    4,
	KindF64:    8,
	KindChar:   4,
	KindObject: RefSize,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindChar
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64, KindChar:
		return true
	default:
		return false
	}
}

// Size returns the slot size in bytes for values of this kind.
func (k Kind) Size() uint32 {
	if int(k) < len(kindSizes) {
		return kindSizes[k]
	}
	return 0
}

// Ref is an opaque reference to an object owned by a type's factory or
// counter. Ref 0 is the null reference and is the zero slot value.
type Ref uint32

// RefSize is the slot size of ValueObject and Handle elements.
const RefSize = 4

// Null is the null reference.
const Null Ref = 0
