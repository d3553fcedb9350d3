package codec

import (
	"io"
	"strconv"

	"github.com/wippyai/bincodec/errors"
)

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

type array[T any] struct {
	elem Codec[T]
	n    int
}

// Array decodes exactly n elements. Encoding requires len(v) == n.
func Array[T any](elem Codec[T], n int) Codec[[]T] {
	return array[T]{elem: elem, n: n}
}

func (a array[T]) Decode(src Source, ctx any) ([]T, Source, error) {
	out, rest, err := decodeN(a.elem, src, ctx, a.n)
	if err != nil {
		return nil, rest, err
	}
	return out, rest, nil
}

func (a array[T]) Encode(w io.Writer, v []T, ctx any) error {
	if len(v) != a.n {
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Detail("array of %d elements, got %d", a.n, len(v)).
			Build()
	}
	return encodeAll(a.elem, w, v, ctx)
}

func decodeN[T any](elem Codec[T], src Source, ctx any, n int) ([]T, Source, error) {
	// cap the preallocation by input size, a bogus count must not allocate
	out := make([]T, 0, min(n, src.Len()+1))
	rest := src
	for i := range n {
		v, next, err := elem.Decode(rest, ctx)
		if err != nil {
			return nil, next, errors.WithPath(err, index(i))
		}
		out = append(out, v)
		rest = next
	}
	return out, rest, nil
}

func encodeAll[T any](elem Codec[T], w io.Writer, v []T, ctx any) error {
	for i := range v {
		if err := elem.Encode(w, v[i], ctx); err != nil {
			return errors.WithPath(err, index(i))
		}
	}
	return nil
}

type fixedBytes int

// FixedBytes decodes exactly n bytes as a view into the source.
func FixedBytes(n int) Codec[[]byte] {
	return fixedBytes(n)
}

func (n fixedBytes) Decode(src Source, _ any) ([]byte, Source, error) {
	return src.Take(int(n))
}

func (n fixedBytes) Encode(w io.Writer, v []byte, _ any) error {
	if len(v) != int(n) {
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Detail("expected %d bytes, got %d", int(n), len(v)).
			Build()
	}
	return Write(w, v)
}
