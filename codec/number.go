package codec

import (
	"encoding/binary"
	"io"
	"unsafe"

	"github.com/wippyai/bincodec/errors"
)

// Fixed is the set of fixed-width numeric types, including named types
// built on them.
type Fixed interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

type number[T Fixed] struct {
	order binary.ByteOrder
	size  int
}

// Number returns the codec for T in the given byte order. Values are
// reinterpreted bit for bit, floats included.
func Number[T Fixed](order binary.ByteOrder) Codec[T] {
	var zero T
	return number[T]{order: order, size: int(unsafe.Sizeof(zero))}
}

func (n number[T]) Decode(src Source, _ any) (T, Source, error) {
	var v T
	b, rest, err := src.Take(n.size)
	if err != nil {
		return v, src, err
	}
	p := unsafe.Pointer(&v)
	switch n.size {
	case 1:
		*(*uint8)(p) = b[0]
	case 2:
		*(*uint16)(p) = n.order.Uint16(b)
	case 4:
		*(*uint32)(p) = n.order.Uint32(b)
	case 8:
		*(*uint64)(p) = n.order.Uint64(b)
	}
	return v, rest, nil
}

func (n number[T]) Encode(w io.Writer, v T, _ any) error {
	var buf [8]byte
	p := unsafe.Pointer(&v)
	switch n.size {
	case 1:
		buf[0] = *(*uint8)(p)
	case 2:
		n.order.PutUint16(buf[:], *(*uint16)(p))
	case 4:
		n.order.PutUint32(buf[:], *(*uint32)(p))
	case 8:
		n.order.PutUint64(buf[:], *(*uint64)(p))
	}
	return Write(w, buf[:n.size])
}

// Host byte order.
var (
	U8  = Number[uint8](binary.NativeEndian)
	I8  = Number[int8](binary.NativeEndian)
	U16 = Number[uint16](binary.NativeEndian)
	I16 = Number[int16](binary.NativeEndian)
	U32 = Number[uint32](binary.NativeEndian)
	I32 = Number[int32](binary.NativeEndian)
	U64 = Number[uint64](binary.NativeEndian)
	I64 = Number[int64](binary.NativeEndian)
	F32 = Number[float32](binary.NativeEndian)
	F64 = Number[float64](binary.NativeEndian)
)

// Little-endian.
var (
	U16LE = Number[uint16](binary.LittleEndian)
	I16LE = Number[int16](binary.LittleEndian)
	U32LE = Number[uint32](binary.LittleEndian)
	I32LE = Number[int32](binary.LittleEndian)
	U64LE = Number[uint64](binary.LittleEndian)
	I64LE = Number[int64](binary.LittleEndian)
	F32LE = Number[float32](binary.LittleEndian)
	F64LE = Number[float64](binary.LittleEndian)
)

// Big-endian.
var (
	U16BE = Number[uint16](binary.BigEndian)
	I16BE = Number[int16](binary.BigEndian)
	U32BE = Number[uint32](binary.BigEndian)
	I32BE = Number[int32](binary.BigEndian)
	U64BE = Number[uint64](binary.BigEndian)
	I64BE = Number[int64](binary.BigEndian)
	F32BE = Number[float32](binary.BigEndian)
	F64BE = Number[float64](binary.BigEndian)
)

// LE holds a number that is always stored little-endian.
type LE[T Fixed] struct {
	V T
}

// BE holds a number that is always stored big-endian.
type BE[T Fixed] struct {
	V T
}

type wrapped[T Fixed, W any] struct {
	inner Codec[T]
	wrap  func(T) W
	get   func(W) T
}

func (c wrapped[T, W]) Decode(src Source, ctx any) (W, Source, error) {
	v, rest, err := c.inner.Decode(src, ctx)
	if err != nil {
		var zero W
		return zero, rest, err
	}
	return c.wrap(v), rest, nil
}

func (c wrapped[T, W]) Encode(w io.Writer, v W, ctx any) error {
	return c.inner.Encode(w, c.get(v), ctx)
}

// LittleEndian returns the codec for LE[T].
func LittleEndian[T Fixed]() Codec[LE[T]] {
	return wrapped[T, LE[T]]{
		inner: Number[T](binary.LittleEndian),
		wrap:  func(v T) LE[T] { return LE[T]{V: v} },
		get:   func(v LE[T]) T { return v.V },
	}
}

// BigEndian returns the codec for BE[T].
func BigEndian[T Fixed]() Codec[BE[T]] {
	return wrapped[T, BE[T]]{
		inner: Number[T](binary.BigEndian),
		wrap:  func(v T) BE[T] { return BE[T]{V: v} },
		get:   func(v BE[T]) T { return v.V },
	}
}

type boolCodec struct{}

// Bool is a one-byte boolean. Bytes other than 0 and 1 are invalid.
var Bool Codec[bool] = boolCodec{}

func (boolCodec) Decode(src Source, _ any) (bool, Source, error) {
	b, rest, err := src.Take(1)
	if err != nil {
		return false, src, err
	}
	switch b[0] {
	case 0:
		return false, rest, nil
	case 1:
		return true, rest, nil
	}
	return false, src, errors.InvalidInput(src.Offset(), "bool byte out of range")
}

func (boolCodec) Encode(w io.Writer, v bool, _ any) error {
	var b [1]byte
	if v {
		b[0] = 1
	}
	return Write(w, b[:])
}
