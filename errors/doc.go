// Package errors provides structured error types for the bincodec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, input offset, Go/schema type
// names, and cause chain.
//
// Decoding fails with one of three kinds: KindNotEnoughBytes, KindInvalidInput
// and KindAssertionFailed. Match them with errors.Is against the sentinels:
//
//	if errors.Is(err, errors.ErrNotEnoughBytes) {
//		// wait for more input
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
//		Path("header", "len").
//		GoType("string").
//		SchemaType("u8").
//		Detail("field not assignable").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
