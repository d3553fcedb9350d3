package codec

import (
	"io"

	"github.com/wippyai/bincodec/errors"
)

// LEB128 variable-length integers.

type uvarint struct{}
type varint struct{}

// Uvarint is an unsigned LEB128 integer of at most 64 bits.
var Uvarint Codec[uint64] = uvarint{}

// Varint is a signed LEB128 integer of at most 64 bits.
var Varint Codec[int64] = varint{}

func (uvarint) Decode(src Source, _ any) (uint64, Source, error) {
	data := src.Bytes()
	var result uint64
	var shift uint
	for i, b := range data {
		if shift == 63 && b > 1 {
			return 0, src, errors.InvalidInput(src.Offset(), "uvarint overflows 64 bits")
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, src.Advance(i + 1), nil
		}
		shift += 7
		if shift > 63 {
			return 0, src, errors.InvalidInput(src.Offset(), "uvarint overflows 64 bits")
		}
	}
	return 0, src, errors.NotEnoughBytes(src.Offset(), len(data)+1, len(data))
}

func (uvarint) Encode(w io.Writer, v uint64, _ any) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	return Write(w, buf[:n])
}

func (varint) Decode(src Source, _ any) (int64, Source, error) {
	data := src.Bytes()
	var result int64
	var shift uint
	for i, b := range data {
		if shift == 63 && b != 0x00 && b != 0x7f {
			return 0, src, errors.InvalidInput(src.Offset(), "varint overflows 64 bits")
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			// Sign extend
			if shift < 64 && b&0x40 != 0 {
				result |= ^int64(0) << shift
			}
			return result, src.Advance(i + 1), nil
		}
		if shift >= 70 {
			return 0, src, errors.InvalidInput(src.Offset(), "varint overflows 64 bits")
		}
	}
	return 0, src, errors.NotEnoughBytes(src.Offset(), len(data)+1, len(data))
}

func (varint) Encode(w io.Writer, v int64, _ any) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		buf[n] = b
		n++
		if done {
			break
		}
	}
	return Write(w, buf[:n])
}
