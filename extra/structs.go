package extra

import (
	"io"
	"math"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// VarStructs is a length-prefixed sequence of structured elements.
type VarStructs[L Length, T any] struct {
	n     L
	items []T
}

// NewVarStructs wraps items. It fails if len(items) does not fit L.
func NewVarStructs[L Length, T any](items []T) (VarStructs[L, T], error) {
	n, err := lengthOf[L](len(items))
	if err != nil {
		return VarStructs[L, T]{}, err
	}
	return VarStructs[L, T]{n: n, items: items}, nil
}

func (v VarStructs[L, T]) Len() L { return v.n }

func (v VarStructs[L, T]) Items() []T { return v.items }

type varStructs[L Length, T any] struct {
	length codec.Codec[L]
	elem   codec.Codec[T]
}

// Structs returns the codec for VarStructs. Exactly Len elements are decoded
// with the ambient context and any element failure is returned; a short
// buffer is an error, not the end of the sequence.
func Structs[L Length, T any](length codec.Codec[L], elem codec.Codec[T]) codec.Codec[VarStructs[L, T]] {
	return varStructs[L, T]{length: length, elem: elem}
}

func (c varStructs[L, T]) Decode(src codec.Source, ctx any) (VarStructs[L, T], codec.Source, error) {
	n, rest, err := c.length.Decode(src, nil)
	if err != nil {
		return VarStructs[L, T]{}, rest, err
	}
	if uint64(n) > math.MaxInt {
		return VarStructs[L, T]{}, rest, errors.NotEnoughBytes(rest.Offset(), math.MaxInt, rest.Len())
	}
	items, rest, err := codec.Array(c.elem, int(n)).Decode(rest, ctx)
	if err != nil {
		return VarStructs[L, T]{}, rest, err
	}
	return VarStructs[L, T]{n: n, items: items}, rest, nil
}

func (c varStructs[L, T]) Encode(w io.Writer, v VarStructs[L, T], ctx any) error {
	if err := c.length.Encode(w, v.n, nil); err != nil {
		return err
	}
	return codec.Array(c.elem, len(v.items)).Encode(w, v.items, ctx)
}
