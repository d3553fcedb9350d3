package codec

import (
	"unsafe"

	"github.com/wippyai/bincodec/errors"
)

// SourceKind restricts which inputs a codec accepts.
type SourceKind uint8

const (
	SourceAny SourceKind = iota
	SourceBytes
	SourceText
)

var sourceKindNames = [...]string{
	SourceAny:   "any",
	SourceBytes: "bytes",
	SourceText:  "text",
}

func (k SourceKind) String() string {
	if int(k) < len(sourceKindNames) {
		return sourceKindNames[k]
	}
	return "unknown"
}

// Accepts reports whether src satisfies the kind.
func (k SourceKind) Accepts(src Source) bool {
	switch k {
	case SourceBytes:
		return !src.text
	case SourceText:
		return src.text
	default:
		return true
	}
}

// Source is an immutable cursor over the input. Decoding returns a new Source
// for the unconsumed suffix; keeping an old value is enough to rewind.
type Source struct {
	data []byte
	off  int
	text bool
}

// FromBytes returns a source over b starting at offset 0.
func FromBytes(b []byte) Source {
	return Source{data: b}
}

// FromBytesAt returns a source over b whose first byte sits at base in the
// enclosing input, so error offsets are reported in that coordinate space.
func FromBytesAt(b []byte, base int) Source {
	return Source{data: b, off: base}
}

// FromString returns a text source viewing the bytes of s without copying.
func FromString(s string) Source {
	return Source{data: unsafe.Slice(unsafe.StringData(s), len(s)), text: true}
}

// Bytes returns the unconsumed input. The slice must not be modified.
func (s Source) Bytes() []byte { return s.data }

// Len returns the number of unconsumed bytes.
func (s Source) Len() int { return len(s.data) }

// Empty reports whether all input has been consumed.
func (s Source) Empty() bool { return len(s.data) == 0 }

// Offset returns the absolute position of the next unconsumed byte.
func (s Source) Offset() int { return s.off }

// IsText reports whether the source was created from a string.
func (s Source) IsText() bool { return s.text }

// Advance drops n bytes. n must not exceed Len.
func (s Source) Advance(n int) Source {
	return Source{data: s.data[n:], off: s.off + n, text: s.text}
}

// Take splits off exactly n bytes. On a short input it fails with
// NotEnoughBytes at the current offset and consumes nothing.
func (s Source) Take(n int) ([]byte, Source, error) {
	if n < 0 || n > len(s.data) {
		return nil, s, errors.NotEnoughBytes(s.off, n, len(s.data))
	}
	return s.data[:n:n], s.Advance(n), nil
}

// Limit returns a source holding only the first n bytes, for decoding a
// nested region in place.
func (s Source) Limit(n int) Source {
	return Source{data: s.data[:n:n], off: s.off, text: s.text}
}

// String returns the unconsumed input as a string. Text sources are viewed
// without copying.
func (s Source) String() string {
	if s.text {
		return unsafe.String(unsafe.SliceData(s.data), len(s.data))
	}
	return string(s.data)
}
