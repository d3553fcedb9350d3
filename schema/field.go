package schema

import (
	"github.com/wippyai/bincodec/codec"
)

// ContextMode selects how a field obtains its context.
type ContextMode uint8

const (
	// ContextNone passes a nil context whatever the parent received.
	ContextNone ContextMode = iota
	// ContextInherit passes the parent's context unchanged.
	ContextInherit
	// ContextComputed passes the result of Field.Compute.
	ContextComputed
)

var contextModeNames = [...]string{
	ContextNone:     "none",
	ContextInherit:  "inherit",
	ContextComputed: "computed",
}

func (m ContextMode) String() string {
	if int(m) < len(contextModeNames) {
		return contextModeNames[m]
	}
	return "unknown"
}

// ContextFunc computes a field's context from the sibling values decoded so
// far and the parent's context. It must not modify either.
type ContextFunc func(f Frame, parent any) any

// Pattern is a named predicate over a decoded field value. Values, when set,
// is a list of literals converted to the field type at compile time; the
// field matches if it equals one of them.
type Pattern struct {
	Name   string
	Match  func(v any) bool
	Values []any
}

// OneOf matches any of the given literals.
func OneOf(name string, values ...any) *Pattern {
	return &Pattern{Name: name, Values: values}
}

// Predicate matches values accepted by fn.
func Predicate(name string, fn func(v any) bool) *Pattern {
	return &Pattern{Name: name, Match: fn}
}

// Field is one named, typed slot of a struct or variant.
type Field struct {
	Name    string
	Codec   codec.Erased
	Context ContextMode
	Compute ContextFunc

	// Assertions checked right after the field is decoded. A nil literal
	// means no assertion. On encode a field with AssertEq writes the literal.
	AssertEq any
	AssertNe any
	Matches  *Pattern
}

// NewField returns a field with no context and no assertions.
func NewField[T any](name string, c codec.Codec[T]) Field {
	return Field{Name: name, Codec: codec.Erase(c)}
}

// ErasedField is NewField for an already erased codec, such as a nested
// compiled procedure.
func ErasedField(name string, c codec.Erased) Field {
	return Field{Name: name, Codec: c}
}

// Inherit passes the parent's context to the field.
func (f Field) Inherit() Field {
	f.Context = ContextInherit
	f.Compute = nil
	return f
}

// Computed passes fn's result to the field.
func (f Field) Computed(fn ContextFunc) Field {
	f.Context = ContextComputed
	f.Compute = fn
	return f
}

// Eq asserts the field equals v.
func (f Field) Eq(v any) Field {
	f.AssertEq = v
	return f
}

// Ne asserts the field differs from v.
func (f Field) Ne(v any) Field {
	f.AssertNe = v
	return f
}

// Match asserts the field satisfies p.
func (f Field) Match(p *Pattern) Field {
	f.Matches = p
	return f
}
