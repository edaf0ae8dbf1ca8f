package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred.
type Phase string

const (
	PhaseDecode   Phase = "decode"   // wasm binary decoding
	PhaseLoad     Phase = "load"     // checkfile loading
	PhaseValidate Phase = "validate" // policy evaluation
	PhaseGenerate Phase = "generate" // checkfile generation
	PhaseDiff     Phase = "diff"     // module comparison
	PhaseConfig   Phase = "config"   // process configuration
	PhaseCatalog  Phase = "catalog"  // remote catalog client
)

// Kind categorizes the error.
type Kind string

const (
	KindMalformed     Kind = "malformed"      // invalid wasm bytes
	KindUnsupported   Kind = "unsupported"    // wasm feature outside the supported set
	KindSyntax        Kind = "syntax"         // checkfile YAML syntax error
	KindRedirectLoop  Kind = "redirect_loop"  // nested url: indirection
	KindHTTP          Kind = "http"           // checkfile url fetch failure
	KindFieldUnknown  Kind = "field_unknown"  // unrecognised checkfile key
	KindInvalidData   Kind = "invalid_data"   // well-formed but semantically invalid input
	KindInvalidInput  Kind = "invalid_input"  // caller supplied invalid arguments
	KindNotFound      Kind = "not_found"      // remote resource missing
	KindThresholdSkew Kind = "threshold_skew" // complexity thresholds out of order
)

// Error is the structured error type used throughout the engine.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int // byte offset into the input, -1 when not applicable
}

// Error implements the error interface.
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

	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset at which the error was discovered.
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns.

// Malformed creates a decode error for invalid magic, truncated sections, or
// invalid LEB128, tagged with the byte offset at which decoding failed.
func Malformed(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformed,
		Offset: offset,
		Detail: detail,
	}
}

// UnsupportedFeature creates a decode error for a section using a wasm
// feature outside the enumerated supported set.
func UnsupportedFeature(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupported,
		Offset: offset,
		Detail: detail,
	}
}

// Syntax creates a checkfile YAML syntax error.
func Syntax(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSyntax,
		Offset: -1,
		Detail: "invalid checkfile syntax",
		Cause:  cause,
	}
}

// RedirectLoop creates an error for a nested url: indirection.
func RedirectLoop(url string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindRedirectLoop,
		Offset: -1,
		Detail: fmt.Sprintf("url %q redirects to another url after one indirection", url),
	}
}

// HTTPFailure creates an error for a failed checkfile url fetch.
func HTTPFailure(url string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindHTTP,
		Offset: -1,
		Detail: fmt.Sprintf("fetch %q", url),
		Cause:  cause,
	}
}

// CatalogFailure creates an error for a failed catalog HTTP call.
func CatalogFailure(url string, cause error) *Error {
	return &Error{
		Phase:  PhaseCatalog,
		Kind:   KindHTTP,
		Offset: -1,
		Detail: fmt.Sprintf("catalog request %q", url),
		Cause:  cause,
	}
}

// FieldUnknown creates an unknown field error.
func FieldUnknown(path []string, fieldName string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindFieldUnknown,
		Path:   path,
		Offset: -1,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// InvalidData creates an invalid data error.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Offset: -1,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// NotFound creates a not-found error.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Offset: -1,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// ThresholdSkew creates a configuration error for complexity thresholds that
// are not monotonically ordered.
func ThresholdSkew(low, medium int) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindThresholdSkew,
		Offset: -1,
		Detail: fmt.Sprintf("MODSURFER_RISK_LOW (%d) must be <= MODSURFER_RISK_MEDIUM (%d)", low, medium),
	}
}
