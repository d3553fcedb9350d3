package wasmmem

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// Memory is the part of api.Memory the package needs.
type Memory interface {
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
}

var _ Memory = api.Memory(nil)

// Source returns a decode source over length bytes of mem at offset.
func Source(mem Memory, offset, length uint32) (codec.Source, error) {
	data, ok := mem.Read(offset, length)
	if !ok {
		return codec.Source{}, errors.NotEnoughBytes(int(offset), int(length), available(mem, offset))
	}
	return codec.FromBytesAt(data, int(offset)), nil
}

func available(mem Memory, offset uint32) int {
	size := mem.Size()
	if offset >= size {
		return 0
	}
	return int(size - offset)
}

// Decode decodes one value from the region [offset, offset+length) and
// returns it with the address of the first unconsumed byte.
func Decode[T any](c codec.Codec[T], mem Memory, offset, length uint32, ctx any) (T, uint32, error) {
	var zero T
	src, err := Source(mem, offset, length)
	if err != nil {
		return zero, offset, err
	}
	v, rest, err := c.Decode(src, ctx)
	if err != nil {
		return zero, uint32(rest.Offset()), err
	}
	return v, uint32(rest.Offset()), nil
}

// Encode writes v into mem at offset and returns the end address.
func Encode[T any](c codec.Codec[T], mem Memory, offset uint32, v T, ctx any) (uint32, error) {
	w := NewWriter(mem, offset)
	if err := c.Encode(w, v, ctx); err != nil {
		if errors.KindOf(err) == "" {
			return w.Offset(), errors.IO(err)
		}
		return w.Offset(), err
	}
	return w.Offset(), nil
}

// Writer is an io.Writer appending to guest memory. A write that does not
// fit fails without writing anything.
type Writer struct {
	mem Memory
	off uint32
}

// NewWriter returns a writer starting at offset.
func NewWriter(mem Memory, offset uint32) *Writer {
	return &Writer{mem: mem, off: offset}
}

func (w *Writer) Write(p []byte) (int, error) {
	if uint64(w.off)+uint64(len(p)) > uint64(w.mem.Size()) || !w.mem.Write(w.off, p) {
		return 0, fmt.Errorf("write out of bounds: offset=%d, length=%d", w.off, len(p))
	}
	w.off += uint32(len(p))
	return len(p), nil
}

// Offset returns the address of the next write.
func (w *Writer) Offset() uint32 { return w.off }
