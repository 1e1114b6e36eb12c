package typeinfo

// ReturnKind classifies a method's return value.
type ReturnKind uint8

const (
	ReturnVoid ReturnKind = iota
	ReturnBool
	ReturnInt32
	ReturnOther
)

// ParamMode describes how an argument is passed.
type ParamMode uint8

const (
	ParamValue ParamMode = iota
	ParamInRef
	ParamOutRef
	ParamInOutRef
)

// IsInRef reports whether the argument is readable by the callee through a
// reference.
func (m ParamMode) IsInRef() bool {
	return m == ParamInRef || m == ParamInOutRef
}

// Param describes a method parameter.
type Param struct {
	Type *Type
	Mode ParamMode
	// Handle marks a handle parameter.
	Handle bool
	// HandleToConst marks a handle to a read-only object.
	HandleToConst bool
	// Const marks a read-only reference parameter.
	Const bool
}

// NativeFunc implements a method in Go. Results use the raw encoding
// described by BoolResult and Int32Result.
type NativeFunc func(this, arg Ref) (uint64, error)

// Method describes a method exposed by a type for reflection.
type Method struct {
	Native NativeFunc
	Name   string
	// Export names the scripted function implementing the method. Methods
	// with an export run on a script engine; others run Native.
	Export     string
	Params     []Param
	Return     ReturnKind
	ReturnsRef bool
	// ReadOnly marks a method that does not modify its receiver.
	ReadOnly bool
}

// BoolResult encodes a bool method result.
func BoolResult(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Int32Result encodes an int32 method result.
func Int32Result(v int32) uint64 {
	return uint64(uint32(v))
}

// DecodeBool decodes a raw bool result.
func DecodeBool(raw uint64) bool {
	return uint32(raw) != 0
}

// DecodeInt32 decodes a raw int32 result.
func DecodeInt32(raw uint64) int32 {
	return int32(uint32(raw))
}
