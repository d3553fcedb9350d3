package schema

// Frame exposes the sibling values of a struct or variant to context
// functions. While decoding it holds the fields decoded so far; while
// encoding it holds every field of the value being written.
type Frame struct {
	names  []string
	values []any
}

// NewFrame pairs names with values. Extra values are ignored.
func NewFrame(names []string, values []any) Frame {
	return Frame{names: names, values: values}
}

// Get returns the value of the named field.
func (f Frame) Get(name string) (any, bool) {
	for i, n := range f.names {
		if n == name && i < len(f.values) {
			return f.values[i], true
		}
	}
	return nil, false
}

// Len returns the number of values available.
func (f Frame) Len() int {
	return min(len(f.names), len(f.values))
}

// FromField uses an earlier field's value as the context.
func FromField(name string) ContextFunc {
	return func(f Frame, _ any) any {
		v, _ := f.Get(name)
		return v
	}
}

// FromParent passes fn applied to the parent's context.
func FromParent(fn func(parent any) any) ContextFunc {
	return func(_ Frame, parent any) any {
		return fn(parent)
	}
}
