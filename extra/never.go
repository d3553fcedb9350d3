package extra

import (
	"io"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// Never is a type that cannot be decoded. Placing it in a union variant
// disables that variant.
type Never struct{}

type never struct{}

// NeverCodec always fails: decoding with InvalidInput, encoding with
// KindUnsupported.
var NeverCodec codec.Codec[Never] = never{}

func (never) Decode(src codec.Source, _ any) (Never, codec.Source, error) {
	return Never{}, src, errors.InvalidInput(src.Offset(), "Never cannot be decoded")
}

func (never) Encode(io.Writer, Never, any) error {
	return errors.Unsupported(errors.PhaseEncode, "Never cannot be encoded")
}

type exhaustive[T any] struct {
	many codec.Codec[[]T]
}

// Exhaustive decodes elements greedily and then requires the input to be
// fully consumed, failing with InvalidInput at the first leftover byte.
func Exhaustive[T any](elem codec.Codec[T]) codec.Codec[[]T] {
	return exhaustive[T]{many: codec.Many(elem)}
}

func (e exhaustive[T]) Decode(src codec.Source, ctx any) ([]T, codec.Source, error) {
	items, rest, _ := e.many.Decode(src, ctx)
	if !rest.Empty() {
		return nil, rest, errors.InvalidInput(rest.Offset(), "trailing bytes after sequence")
	}
	return items, rest, nil
}

func (e exhaustive[T]) Encode(w io.Writer, v []T, ctx any) error {
	return e.many.Encode(w, v, ctx)
}
