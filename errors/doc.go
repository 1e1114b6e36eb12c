// Package errors provides structured error types for script-array.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries context: element path, type name, offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMutate, errors.KindOutOfRange).
//		Path("array<int32>", "insert").
//		TypeName("int32").
//		Detail("index %d out of range", idx).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseMutate, path, 10, 5)
//	err := errors.NoComparator(errors.PhaseCompare, "point", "opCmp")
//
// Sentinels match any error of the same Kind regardless of phase:
//
//	if errors.Is(err, errors.ErrOutOfRange) { ... }
package errors
