// Package errors provides structured error types for the modsurfer engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a field path, a byte offset for decode
// failures, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindSyntax).
//		Path("validate", "imports").
//		Detail("expected a mapping").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed(offset, "invalid magic number")
//	err := errors.FieldUnknown(path, "allow_wasi_v2")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
