// Package summary builds an immutable Module Summary from raw WebAssembly
// bytes: the shared data model consumed by the validate, generate, and diff
// packages.
//
// Decode is the only entry point:
//
//	s, err := summary.Decode(wasmBytes)
//	if err != nil {
//	    var derr *errors.Error
//	    if errors.As(err, &derr) {
//	        // derr.Offset is the byte offset at which decoding failed
//	    }
//	}
//
// A Summary never retains references into the caller's byte slice; names and
// custom section payloads are copied out during decode.
package summary
