package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister  Phase = "register"  // type registration and validation
	PhaseAlloc     Phase = "alloc"     // buffer allocation
	PhaseConstruct Phase = "construct" // array construction
	PhaseMutate    Phase = "mutate"    // structural mutation
	PhaseQuery     Phase = "query"     // read-only access
	PhaseCompare   Phase = "compare"   // equality, ordering, sort
	PhaseGC        Phase = "gc"        // collector callbacks
	PhaseScript    Phase = "script"    // scripted method execution
	PhaseEncode    Phase = "encode"    // Go value to slot bytes
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfMemory         Kind = "out_of_memory"
	KindOutOfRange          Kind = "out_of_range"
	KindNoComparator        Kind = "no_comparator"
	KindAmbiguousComparator Kind = "ambiguous_comparator"
	KindElementConstruction Kind = "element_construction"
	KindReentrant           Kind = "reentrant"
	KindTypeMismatch        Kind = "type_mismatch"
	KindOverflow            Kind = "overflow"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
	KindNotFound            Kind = "not_found"
	KindScript              Kind = "script"
	KindReleased            Kind = "released"
)

// Sentinels for errors.Is checks. They carry no phase, so they match any
// error of the same kind.
var (
	ErrOutOfMemory         = &Error{Kind: KindOutOfMemory}
	ErrOutOfRange          = &Error{Kind: KindOutOfRange}
	ErrNoComparator        = &Error{Kind: KindNoComparator}
	ErrAmbiguousComparator = &Error{Kind: KindAmbiguousComparator}
	ErrElementConstruction = &Error{Kind: KindElementConstruction}
	ErrReentrant           = &Error{Kind: KindReentrant}
	ErrTypeMismatch        = &Error{Kind: KindTypeMismatch}
	ErrReleased            = &Error{Kind: KindReleased}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the element type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfMemory creates an allocation failure error
func OutOfMemory(phase Phase, size int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes: %s", size, detail),
		Value:  size,
	}
}

// TooLarge creates an allocation failure for a requested element count that
// exceeds the configured maximum
func TooLarge(phase Phase, typeName string, elements uint64) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOutOfMemory,
		TypeName: typeName,
		Detail:   fmt.Sprintf("too large array size (%d elements)", elements),
		Value:    elements,
	}
}

// OutOfRange creates an index out of range error
func OutOfRange(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (size %d)", index, length),
		Value:  index,
	}
}

// NoComparator creates an error for an element type without a usable method
func NoComparator(phase Phase, typeName, method string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNoComparator,
		TypeName: typeName,
		Detail:   fmt.Sprintf("type has no %s method", method),
	}
}

// AmbiguousComparator creates an error for an element type with more than one
// matching method
func AmbiguousComparator(phase Phase, typeName, method string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindAmbiguousComparator,
		TypeName: typeName,
		Detail:   fmt.Sprintf("type has multiple matching %s methods", method),
	}
}

// ElementConstruction wraps a failed per-element factory call
func ElementConstruction(phase Phase, typeName string, index int, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindElementConstruction,
		TypeName: typeName,
		Detail:   fmt.Sprintf("element %d could not be constructed", index),
		Value:    index,
		Cause:    cause,
	}
}

// Reentrant creates an error for a structural mutation attempted from inside
// a callback that is enumerating the same array
func Reentrant(op string) *Error {
	return &Error{
		Phase:  PhaseMutate,
		Kind:   KindReentrant,
		Detail: fmt.Sprintf("%s called while the array is being enumerated", op),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: want,
		Detail:   fmt.Sprintf("cannot use %s", got),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		TypeName: targetType,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:    value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(typeName string, detail string) *Error {
	return &Error{
		Phase:    PhaseRegister,
		Kind:     KindRegistration,
		TypeName: typeName,
		Detail:   detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Script wraps a failure raised by scripted code
func Script(method string, cause error) *Error {
	return &Error{
		Phase:  PhaseScript,
		Kind:   KindScript,
		Detail: fmt.Sprintf("call %s", method),
		Cause:  cause,
	}
}

// Released creates an error for use of an array whose last reference is gone
func Released(op string) *Error {
	return &Error{
		Phase:  PhaseQuery,
		Kind:   KindReleased,
		Detail: fmt.Sprintf("%s on released array", op),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
