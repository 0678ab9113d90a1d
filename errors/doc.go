// Package errors provides structured error types for the classrefs module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a field path into the descriptor, a detail message naming
// the byte offset involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindUnknownTag).
//		Path("constant_pool", "#12").
//		Detail("tag %d", tag).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseDecode, offset, 2, 1)
//	err := errors.OutOfRange(errors.PhaseExtract, path, 40, 12)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target built with Sentinel matches any error of the same Kind.
package errors
