package extra

import (
	"bytes"
	"io"
	"math"
	"reflect"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// Length is the set of integer types usable as a length prefix.
type Length interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func lengthOf[L Length](n int) (L, error) {
	if uint64(n) > uint64(^L(0)) {
		var zero L
		return zero, errors.Overflow(errors.PhaseEncode, nil, n, reflect.TypeFor[L]().String())
	}
	return L(n), nil
}

// splitPrefixed reads a length with a nil context and splits off that many
// bytes. A short payload fails at the position right after the length.
func splitPrefixed[L Length](length codec.Codec[L], src codec.Source) (L, []byte, codec.Source, error) {
	n, rest, err := length.Decode(src, nil)
	if err != nil {
		return 0, nil, rest, err
	}
	if uint64(n) > uint64(rest.Len()) {
		return 0, nil, rest, errors.NotEnoughBytes(rest.Offset(), int(min(uint64(n), math.MaxInt)), rest.Len())
	}
	payload, rest, _ := rest.Take(int(n))
	return n, payload, rest, nil
}

func writePrefixed[L Length](length codec.Codec[L], w io.Writer, n L, data []byte) error {
	if err := length.Encode(w, n, nil); err != nil {
		return err
	}
	return codec.Write(w, data)
}

// VarBytes is a length-prefixed byte run viewing the source it was decoded
// from. It must not outlive that source.
type VarBytes[L Length] struct {
	n    L
	data []byte
}

// NewVarBytes wraps b without copying. It fails if len(b) does not fit L.
func NewVarBytes[L Length](b []byte) (VarBytes[L], error) {
	n, err := lengthOf[L](len(b))
	if err != nil {
		return VarBytes[L]{}, err
	}
	return VarBytes[L]{n: n, data: b}, nil
}

// Len returns the length prefix.
func (v VarBytes[L]) Len() L { return v.n }

// Bytes returns the payload. It must not be modified.
func (v VarBytes[L]) Bytes() []byte { return v.data }

type varBytes[L Length] struct {
	length codec.Codec[L]
}

// Bytes returns the codec for VarBytes with the given length prefix.
func Bytes[L Length](length codec.Codec[L]) codec.Codec[VarBytes[L]] {
	return varBytes[L]{length: length}
}

func (c varBytes[L]) Decode(src codec.Source, _ any) (VarBytes[L], codec.Source, error) {
	n, payload, rest, err := splitPrefixed(c.length, src)
	if err != nil {
		return VarBytes[L]{}, rest, err
	}
	return VarBytes[L]{n: n, data: payload}, rest, nil
}

func (c varBytes[L]) Encode(w io.Writer, v VarBytes[L], _ any) error {
	return writePrefixed(c.length, w, v.n, v.data)
}

// CowBytes is a length-prefixed byte run that views the source until
// Mutable is called, which copies it once.
type CowBytes[L Length] struct {
	n     L
	data  []byte
	owned bool
}

// NewCowBytes wraps b as a borrowed view.
func NewCowBytes[L Length](b []byte) (CowBytes[L], error) {
	n, err := lengthOf[L](len(b))
	if err != nil {
		return CowBytes[L]{}, err
	}
	return CowBytes[L]{n: n, data: b}, nil
}

func (v CowBytes[L]) Len() L { return v.n }

func (v CowBytes[L]) Bytes() []byte { return v.data }

// Owned reports whether the payload has been copied.
func (v CowBytes[L]) Owned() bool { return v.owned }

// Mutable returns a writable payload, copying it on first use. The length
// is fixed.
func (v *CowBytes[L]) Mutable() []byte {
	if !v.owned {
		v.data = bytes.Clone(v.data)
		v.owned = true
	}
	return v.data
}

type cowBytes[L Length] struct {
	length codec.Codec[L]
}

// Cow returns the codec for CowBytes.
func Cow[L Length](length codec.Codec[L]) codec.Codec[CowBytes[L]] {
	return cowBytes[L]{length: length}
}

func (c cowBytes[L]) Decode(src codec.Source, _ any) (CowBytes[L], codec.Source, error) {
	n, payload, rest, err := splitPrefixed(c.length, src)
	if err != nil {
		return CowBytes[L]{}, rest, err
	}
	return CowBytes[L]{n: n, data: payload}, rest, nil
}

func (c cowBytes[L]) Encode(w io.Writer, v CowBytes[L], _ any) error {
	return writePrefixed(c.length, w, v.n, v.data)
}

// OwnedBytes is a length-prefixed byte run holding its own copy.
type OwnedBytes[L Length] struct {
	n    L
	data []byte
}

// NewOwnedBytes copies b.
func NewOwnedBytes[L Length](b []byte) (OwnedBytes[L], error) {
	n, err := lengthOf[L](len(b))
	if err != nil {
		return OwnedBytes[L]{}, err
	}
	return OwnedBytes[L]{n: n, data: bytes.Clone(b)}, nil
}

func (v OwnedBytes[L]) Len() L { return v.n }

// Bytes returns the payload. Callers may modify it in place.
func (v OwnedBytes[L]) Bytes() []byte { return v.data }

type ownedBytes[L Length] struct {
	length codec.Codec[L]
}

// Owned returns the codec for OwnedBytes. Decoding copies the payload.
func Owned[L Length](length codec.Codec[L]) codec.Codec[OwnedBytes[L]] {
	return ownedBytes[L]{length: length}
}

func (c ownedBytes[L]) Decode(src codec.Source, _ any) (OwnedBytes[L], codec.Source, error) {
	n, payload, rest, err := splitPrefixed(c.length, src)
	if err != nil {
		return OwnedBytes[L]{}, rest, err
	}
	return OwnedBytes[L]{n: n, data: bytes.Clone(payload)}, rest, nil
}

func (c ownedBytes[L]) Encode(w io.Writer, v OwnedBytes[L], _ any) error {
	return writePrefixed(c.length, w, v.n, v.data)
}
