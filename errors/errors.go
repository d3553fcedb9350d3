package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // schema compilation
	PhaseDecode  Phase = "decode"  // bytes to value
	PhaseEncode  Phase = "encode"  // value to bytes
	PhaseLayout  Phase = "layout"  // layout file loading
)

// Kind categorizes the error
type Kind string

const (
	// decode failures
	KindNotEnoughBytes  Kind = "not_enough_bytes"
	KindInvalidInput    Kind = "invalid_input"
	KindAssertionFailed Kind = "assertion_failed"

	KindTypeMismatch   Kind = "type_mismatch"
	KindFieldMissing   Kind = "field_missing"
	KindUnsupported    Kind = "unsupported"
	KindInvalidSchema  Kind = "invalid_schema"
	KindNilPointer     Kind = "nil_pointer"
	KindInvalidVariant Kind = "invalid_variant"
	KindOverflow       Kind = "overflow"
	KindIO             Kind = "io"
)

// Sentinels for errors.Is. Matching ignores everything but Phase and Kind.
var (
	ErrNotEnoughBytes  = &Error{Phase: PhaseDecode, Kind: KindNotEnoughBytes}
	ErrInvalidInput    = &Error{Phase: PhaseDecode, Kind: KindInvalidInput}
	ErrAssertionFailed = &Error{Phase: PhaseDecode, Kind: KindAssertionFailed}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
	// Offset is the absolute input position of a decode failure, -1 when unknown.
	Offset int
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
		b.WriteString(JoinPath(e.Path))
	}

	if e.Offset >= 0 && e.Phase == PhaseDecode {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// JoinPath renders a path, folding index elements ("[2]") onto their parent.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the input position
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema type name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
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

// WithPath returns err with elem prepended to its path. Structured errors are
// copied, other errors are returned unchanged.
func WithPath(err error, elem string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = make([]string, 0, len(e.Path)+1)
	cp.Path = append(cp.Path, elem)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// KindOf returns the kind of a structured error, or "" for anything else.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// Convenience constructors for common error patterns

// NotEnoughBytes creates a truncated input error at offset
func NotEnoughBytes(offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNotEnoughBytes,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// InvalidInput creates an invalid input error at offset
func InvalidInput(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidInput,
		Offset: offset,
		Detail: detail,
	}
}

// AssertionFailed creates a field assertion error at offset
func AssertionFailed(offset int, field, detail string, value any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindAssertionFailed,
		Offset: offset,
		Path:   []string{field},
		Detail: detail,
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
		Offset:     -1,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
		Offset: -1,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Offset: -1,
	}
}

// InvalidSchema creates a schema definition error
func InvalidSchema(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidSchema,
		Path:   path,
		Detail: detail,
		Offset: -1,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
		Offset: -1,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindOverflow,
		Path:       path,
		SchemaType: targetType,
		Detail:     fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:      value,
		Offset:     -1,
	}
}

// InvalidVariant creates an error for a union value without exactly one active case
func InvalidVariant(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: detail,
		Offset: -1,
	}
}

// IO wraps a sink failure during encoding
func IO(cause error) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindIO,
		Detail: "write",
		Cause:  cause,
		Offset: -1,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}
