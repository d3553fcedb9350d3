package codec

import (
	"io"
	"math"
	"reflect"
)

// ContextFunc derives a child context from the parent one.
type ContextFunc func(parent any) any

type withContext[T any] struct {
	inner Codec[T]
	fn    ContextFunc
}

// WithContext runs c with the context produced by fn.
func WithContext[T any](c Codec[T], fn ContextFunc) Codec[T] {
	return withContext[T]{inner: c, fn: fn}
}

// NoContext runs c with a nil context whatever the caller passes.
func NoContext[T any](c Codec[T]) Codec[T] {
	return withContext[T]{inner: c, fn: func(any) any { return nil }}
}

func (c withContext[T]) Decode(src Source, ctx any) (T, Source, error) {
	return c.inner.Decode(src, c.fn(ctx))
}

func (c withContext[T]) Encode(w io.Writer, v T, ctx any) error {
	return c.inner.Encode(w, v, c.fn(ctx))
}

// Count converts an integer context to an element count. It accepts every
// integer kind, named types included, and rejects negatives.
func Count(ctx any) (int, bool) {
	switch v := ctx.(type) {
	case int:
		return v, v >= 0
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), v <= math.MaxInt
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(ctx)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return int(n), n >= 0 && n <= math.MaxInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		return int(n), n <= math.MaxInt
	}
	return 0, false
}
