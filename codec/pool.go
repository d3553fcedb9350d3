package codec

import (
	"bytes"
	"sync"

	"github.com/wippyai/bincodec/errors"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 << 10
	poolInitCap = 256
)

var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, poolInitCap))
	},
}

func getBuf() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

func putBuf(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > poolMaxCap {
		return // reject oversized
	}
	buf.Reset()
	bufPool.Put(buf)
}

// Encode encodes v into a new byte slice.
func Encode[T any](c Codec[T], v T, ctx any) ([]byte, error) {
	return Append(nil, c, v, ctx)
}

// Append encodes v and appends the bytes to dst.
func Append[T any](dst []byte, c Codec[T], v T, ctx any) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)
	if err := c.Encode(buf, v, ctx); err != nil {
		return dst, err
	}
	return append(dst, buf.Bytes()...), nil
}

// Decode decodes one value from the start of b and returns the unconsumed rest.
func Decode[T any](c Codec[T], b []byte, ctx any) (T, []byte, error) {
	v, rest, err := c.Decode(FromBytes(b), ctx)
	return v, rest.Bytes(), err
}

// DecodeString decodes one value from a text source.
func DecodeString[T any](c Codec[T], s string, ctx any) (T, string, error) {
	v, rest, err := c.Decode(FromString(s), ctx)
	return v, rest.String(), err
}

// DecodeExact decodes one value and fails with InvalidInput if any input
// is left over.
func DecodeExact[T any](c Codec[T], b []byte, ctx any) (T, error) {
	v, rest, err := c.Decode(FromBytes(b), ctx)
	if err != nil {
		return v, err
	}
	if !rest.Empty() {
		var zero T
		return zero, errors.InvalidInput(rest.Offset(), "trailing bytes after value")
	}
	return v, nil
}
