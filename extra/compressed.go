package extra

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// MaxDecompressedSize bounds the output of a single compressed payload.
const MaxDecompressedSize = 64 << 20

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdCodecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderConcurrency(1))
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(MaxDecompressedSize))
	})
	return zstdEnc, zstdDec, zstdErr
}

type compressed[L Length, T any] struct {
	length codec.Codec[L]
	inner  codec.Codec[T]
}

// Compressed stores T as a length-prefixed zstd frame. The decompressed
// bytes must decode to exactly one T with nothing left over.
func Compressed[L Length, T any](length codec.Codec[L], inner codec.Codec[T]) codec.Codec[T] {
	return compressed[L, T]{length: length, inner: inner}
}

func (c compressed[L, T]) Decode(src codec.Source, ctx any) (T, codec.Source, error) {
	var zero T
	_, frame, rest, err := splitPrefixed(c.length, src)
	if err != nil {
		return zero, rest, err
	}
	_, dec, err := zstdCodecs()
	if err != nil {
		return zero, src, errors.Wrap(errors.PhaseDecode, errors.KindUnsupported, err, "zstd decoder")
	}
	raw, err := dec.DecodeAll(frame, nil)
	if err != nil {
		e := errors.InvalidInput(src.Offset(), "corrupt zstd frame")
		e.Cause = err
		return zero, src, e
	}
	v, left, err := c.inner.Decode(codec.FromBytes(raw), ctx)
	if err != nil {
		return zero, src, errors.WithPath(err, "zstd")
	}
	if !left.Empty() {
		return zero, src, errors.InvalidInput(src.Offset(), "trailing bytes in decompressed payload")
	}
	return v, rest, nil
}

func (c compressed[L, T]) Encode(w io.Writer, v T, ctx any) error {
	raw, err := codec.Encode(c.inner, v, ctx)
	if err != nil {
		return err
	}
	enc, _, err := zstdCodecs()
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindUnsupported, err, "zstd encoder")
	}
	frame := enc.EncodeAll(raw, nil)
	n, err := lengthOf[L](len(frame))
	if err != nil {
		return err
	}
	return writePrefixed(c.length, w, n, frame)
}
