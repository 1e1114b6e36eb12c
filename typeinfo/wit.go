package typeinfo

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

type witClass struct {
	kind  Kind
	flags Flags
	size  uint32
	align uint32
}

func primitiveClass(k Kind) witClass {
	return witClass{kind: k, size: k.Size(), align: k.Size()}
}

var (
	valueClass = witClass{kind: KindObject, flags: FlagValue, size: RefSize, align: RefSize}
	refClass   = witClass{kind: KindObject, flags: FlagRef, size: RefSize, align: RefSize}
)

func witPrimitive(k Kind) wit.Type {
	switch k {
	case KindBool:
		return wit.Bool{}
	case KindU8:
		return wit.U8{}
	case KindS8:
		return wit.S8{}
	case KindU16:
		return wit.U16{}
	case KindS16:
		return wit.S16{}
	case KindU32:
		return wit.U32{}
	case KindS32:
		return wit.S32{}
	case KindU64:
		return wit.U64{}
	case KindS64:
		return wit.S64{}
	case KindF32:
		return wit.F32{}
	case KindF64:
		return wit.F64{}
	case KindChar:
		return wit.Char{}
	default:
		return nil
	}
}

func classifyWIT(t wit.Type) (witClass, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return primitiveClass(KindBool), nil
	case wit.U8:
		return primitiveClass(KindU8), nil
	case wit.S8:
		return primitiveClass(KindS8), nil
	case wit.U16:
		return primitiveClass(KindU16), nil
	case wit.S16:
		return primitiveClass(KindS16), nil
	case wit.U32:
		return primitiveClass(KindU32), nil
	case wit.S32:
		return primitiveClass(KindS32), nil
	case wit.U64:
		return primitiveClass(KindU64), nil
	case wit.S64:
		return primitiveClass(KindS64), nil
	case wit.F32:
		return primitiveClass(KindF32), nil
	case wit.F64:
		return primitiveClass(KindF64), nil
	case wit.Char:
		return primitiveClass(KindChar), nil
	case wit.String:
		return valueClass, nil
	case *wit.TypeDef:
		return classifyTypeDef(typ)
	case nil:
		return witClass{}, fmt.Errorf("nil WIT type")
	default:
		return witClass{}, fmt.Errorf("unsupported WIT type %T", t)
	}
}

func classifyTypeDef(t *wit.TypeDef) (witClass, error) {
	switch kind := t.Kind.(type) {
	case *wit.Enum:
		return primitiveClass(discriminantKind(len(kind.Cases))), nil
	case *wit.Flags:
		return flagsClass(len(kind.Flags))
	case *wit.Own, *wit.Borrow:
		return refClass, nil
	case *wit.Record, *wit.Tuple, *wit.List, *wit.Option, *wit.Result, *wit.Variant:
		return valueClass, nil
	case wit.Type:
		return classifyWIT(kind)
	default:
		return witClass{}, fmt.Errorf("unsupported WIT type kind %T", t.Kind)
	}
}

// discriminantKind mirrors the canonical ABI discriminant width.
func discriminantKind(cases int) Kind {
	switch {
	case cases <= 1<<8:
		return KindU8
	case cases <= 1<<16:
		return KindU16
	default:
		return KindU32
	}
}

func flagsClass(n int) (witClass, error) {
	switch {
	case n == 0:
		return witClass{}, fmt.Errorf("flags type has no flags")
	case n <= 8:
		return primitiveClass(KindU8), nil
	case n <= 16:
		return primitiveClass(KindU16), nil
	case n <= 32:
		return primitiveClass(KindU32), nil
	case n <= 64:
		return primitiveClass(KindU64), nil
	default:
		return witClass{}, fmt.Errorf("flags type with %d flags does not fit a primitive slot", n)
	}
}
