package codec

import (
	"io"

	"github.com/wippyai/bincodec/errors"
)

type many[T any] struct {
	elem Codec[T]
}

// Many decodes elements until one fails or makes no progress, then returns
// what it has. It never fails. The terminating error is discarded.
func Many[T any](elem Codec[T]) Codec[[]T] {
	return many[T]{elem: elem}
}

func (m many[T]) Decode(src Source, ctx any) ([]T, Source, error) {
	var out []T
	rest := src
	for {
		v, next, err := m.elem.Decode(rest, ctx)
		if err != nil || next.Offset() == rest.Offset() {
			return out, rest, nil
		}
		out = append(out, v)
		rest = next
	}
}

func (m many[T]) Encode(w io.Writer, v []T, ctx any) error {
	return encodeAll(m.elem, w, v, ctx)
}

type counted[T any] struct {
	elem Codec[T]
}

// Counted decodes as many elements as the integer context says. It is the
// usual target of a field whose context is computed from an earlier length
// field. Encoding writes the elements only.
func Counted[T any](elem Codec[T]) Codec[[]T] {
	return counted[T]{elem: elem}
}

func (c counted[T]) Decode(src Source, ctx any) ([]T, Source, error) {
	n, err := countFrom(src, ctx)
	if err != nil {
		return nil, src, err
	}
	return decodeN(c.elem, src, ctx, n)
}

func (c counted[T]) Encode(w io.Writer, v []T, ctx any) error {
	return encodeAll(c.elem, w, v, ctx)
}

type countedBytes struct{}

// CountedBytes is Counted over raw bytes, returned as a view into the source.
func CountedBytes() Codec[[]byte] {
	return countedBytes{}
}

func (countedBytes) Decode(src Source, ctx any) ([]byte, Source, error) {
	n, err := countFrom(src, ctx)
	if err != nil {
		return nil, src, err
	}
	return src.Take(n)
}

func (countedBytes) Encode(w io.Writer, v []byte, _ any) error {
	return Write(w, v)
}

func countFrom(src Source, ctx any) (int, error) {
	n, ok := Count(ctx)
	if !ok {
		return 0, errors.InvalidInput(src.Offset(), "context is not a non-negative integer count")
	}
	return n, nil
}

type unit struct{}

// Unit consumes and writes nothing.
func Unit() Codec[struct{}] {
	return unit{}
}

func (unit) Decode(src Source, _ any) (struct{}, Source, error) {
	return struct{}{}, src, nil
}

func (unit) Encode(io.Writer, struct{}, any) error {
	return nil
}

type restBytes struct{}

// Rest consumes all remaining input as a view. It never fails and only makes
// sense as the last field of a composite.
func Rest() Codec[[]byte] {
	return restBytes{}
}

func (restBytes) Decode(src Source, _ any) ([]byte, Source, error) {
	return src.Bytes(), src.Advance(src.Len()), nil
}

func (restBytes) Encode(w io.Writer, v []byte, _ any) error {
	return Write(w, v)
}

type restString struct{}

// RestString consumes all remaining input as a string. Text sources are
// viewed without copying. Like Rest it belongs in the last field.
func RestString() Codec[string] {
	return restString{}
}

func (restString) Decode(src Source, _ any) (string, Source, error) {
	return src.String(), src.Advance(src.Len()), nil
}

func (restString) Encode(w io.Writer, v string, _ any) error {
	if sw, ok := w.(io.StringWriter); ok {
		if _, err := sw.WriteString(v); err != nil {
			return errors.IO(err)
		}
		return nil
	}
	return Write(w, []byte(v))
}
