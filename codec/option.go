package codec

import (
	"io"
	"reflect"

	"github.com/wippyai/bincodec/errors"
)

type option[T any] struct {
	elem Codec[T]
}

// Option decodes T if it can. Any failure yields nil and the original source;
// the error is discarded, so a malformed value reads the same as an absent one.
// Encoding nil writes nothing.
func Option[T any](elem Codec[T]) Codec[*T] {
	return option[T]{elem: elem}
}

func (o option[T]) Decode(src Source, ctx any) (*T, Source, error) {
	v, rest, err := o.elem.Decode(src, ctx)
	if err != nil {
		return nil, src, nil
	}
	return &v, rest, nil
}

func (o option[T]) Encode(w io.Writer, v *T, ctx any) error {
	if v == nil {
		return nil
	}
	return o.elem.Encode(w, *v, ctx)
}

type box[T any] struct {
	elem Codec[T]
}

// Box decodes T into a heap-allocated value.
func Box[T any](elem Codec[T]) Codec[*T] {
	return box[T]{elem: elem}
}

func (b box[T]) Decode(src Source, ctx any) (*T, Source, error) {
	v, rest, err := b.elem.Decode(src, ctx)
	if err != nil {
		return nil, rest, err
	}
	p := new(T)
	*p = v
	return p, rest, nil
}

func (b box[T]) Encode(w io.Writer, v *T, ctx any) error {
	if v == nil {
		return errors.NilPointer(errors.PhaseEncode, nil, reflect.TypeFor[*T]().String())
	}
	return b.elem.Encode(w, *v, ctx)
}
