package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	cerrors "github.com/wippyai/bincodec/errors"
)

func TestNumber_ByteOrder(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	if v, _, _ := Decode(U16LE, data, nil); v != 0x0201 {
		t.Errorf("U16LE = %#x, want 0x0201", v)
	}
	if v, _, _ := Decode(U16BE, data, nil); v != 0x0102 {
		t.Errorf("U16BE = %#x, want 0x0102", v)
	}
	if v, _, _ := Decode(U32BE, data, nil); v != 0x01020304 {
		t.Errorf("U32BE = %#x, want 0x01020304", v)
	}
	if v, _, _ := Decode(U64LE, data, nil); v != 0x0807060504030201 {
		t.Errorf("U64LE = %#x, want 0x0807060504030201", v)
	}
	if v, _, _ := Decode(U32, data, nil); v != binary.NativeEndian.Uint32(data) {
		t.Errorf("U32 = %#x, want native order", v)
	}
	if v, _, _ := Decode(I16BE, []byte{0xff, 0xfe}, nil); v != -2 {
		t.Errorf("I16BE = %d, want -2", v)
	}
}

func TestNumber_Float(t *testing.T) {
	b, err := Encode(F64BE, math.Pi, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := binary.BigEndian.Uint64(b); got != math.Float64bits(math.Pi) {
		t.Errorf("bits = %#x, want %#x", got, math.Float64bits(math.Pi))
	}

	v, rest, err := Decode(F32LE, []byte{0x00, 0x00, 0xc0, 0x3f, 0xaa}, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != 1.5 {
		t.Errorf("F32LE = %v, want 1.5", v)
	}
	if !bytes.Equal(rest, []byte{0xaa}) {
		t.Errorf("rest = %x, want aa", rest)
	}
}

type port uint16

func TestNumber_NamedType(t *testing.T) {
	c := Number[port](binary.BigEndian)
	v, _, err := Decode(c, []byte{0x1f, 0x90}, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v != 8080 {
		t.Errorf("port = %d, want 8080", v)
	}
}

func TestNumber_RoundTrip(t *testing.T) {
	check := func(name string, fn func() error) {
		t.Helper()
		if err := fn(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	check("i8", func() error { return roundTrip(I8, int8(-100)) })
	check("u16", func() error { return roundTrip(U16, uint16(0xbeef)) })
	check("i32be", func() error { return roundTrip(I32BE, int32(math.MinInt32)) })
	check("i64le", func() error { return roundTrip(I64LE, int64(-1)) })
	check("f32be", func() error { return roundTrip(F32BE, float32(-0.25)) })
	check("f64", func() error { return roundTrip(F64, math.MaxFloat64) })
	check("le", func() error { return roundTrip(LittleEndian[uint32](), LE[uint32]{V: 7}) })
	check("be", func() error { return roundTrip(BigEndian[int16](), BE[int16]{V: -7}) })
}

func TestNumber_Truncation(t *testing.T) {
	full := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for n := 1; n < 8; n++ {
		src := FromBytesAt(full[:n], 10)
		_, rest, err := U64BE.Decode(src, nil)
		if !errors.Is(err, cerrors.ErrNotEnoughBytes) {
			t.Fatalf("prefix %d: err = %v, want not_enough_bytes", n, err)
		}
		if rest.Offset() != 10 || rest.Len() != n {
			t.Errorf("prefix %d: consumed input (offset %d, len %d)", n, rest.Offset(), rest.Len())
		}
		var e *cerrors.Error
		if errors.As(err, &e) && e.Offset != 10 {
			t.Errorf("prefix %d: error offset = %d, want 10", n, e.Offset)
		}
	}
}

func TestEndianWrappers(t *testing.T) {
	le, _ := Encode(LittleEndian[uint16](), LE[uint16]{V: 0x0102}, nil)
	be, _ := Encode(BigEndian[uint16](), BE[uint16]{V: 0x0102}, nil)
	if !bytes.Equal(le, []byte{0x02, 0x01}) {
		t.Errorf("LE = %x, want 0201", le)
	}
	if !bytes.Equal(be, []byte{0x01, 0x02}) {
		t.Errorf("BE = %x, want 0102", be)
	}
}

func TestBool(t *testing.T) {
	if v, _, err := Decode(Bool, []byte{1}, nil); err != nil || !v {
		t.Errorf("Decode(1) = %v, %v", v, err)
	}
	if _, _, err := Decode(Bool, []byte{2}, nil); !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("Decode(2) err = %v, want invalid_input", err)
	}
	if _, _, err := Decode(Bool, nil, nil); !errors.Is(err, cerrors.ErrNotEnoughBytes) {
		t.Errorf("Decode(empty) err = %v, want not_enough_bytes", err)
	}
}

func TestVarint(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		got, err := Encode(Uvarint, tt.v, nil)
		if err != nil {
			t.Fatalf("Encode(%d): %v", tt.v, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Encode(%d) = %x, want %x", tt.v, got, tt.want)
		}
		if err := roundTrip(Uvarint, tt.v); err != nil {
			t.Errorf("round trip %d: %v", tt.v, err)
		}
	}

	for _, v := range []int64{0, 1, -1, 63, -64, 64, -65, math.MaxInt64, math.MinInt64} {
		if err := roundTrip(Varint, v); err != nil {
			t.Errorf("varint round trip %d: %v", v, err)
		}
	}

	if _, _, err := Decode(Uvarint, []byte{0x80, 0x80}, nil); !errors.Is(err, cerrors.ErrNotEnoughBytes) {
		t.Errorf("truncated uvarint err = %v", err)
	}
	overlong := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}
	if _, _, err := Decode(Uvarint, overlong, nil); !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("overflowing uvarint err = %v", err)
	}
	badSign := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7e}
	if _, _, err := Decode(Varint, badSign, nil); !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("varint with bad tenth byte err = %v", err)
	}
	minInt := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x7f}
	if v, _, err := Decode(Varint, minInt, nil); err != nil || v != math.MinInt64 {
		t.Errorf("Decode(min int64) = %d, %v", v, err)
	}
}

func roundTrip[T comparable](c Codec[T], v T) error {
	b, err := Encode(c, v, nil)
	if err != nil {
		return err
	}
	got, err := DecodeExact(c, b, nil)
	if err != nil {
		return err
	}
	if got != v {
		return cerrors.New(cerrors.PhaseDecode, cerrors.KindInvalidInput).
			Detail("got %v, want %v", got, v).Build()
	}
	return nil
}

func BenchmarkNumber_Decode(b *testing.B) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	src := FromBytes(data)
	for b.Loop() {
		_, _, _ = U64LE.Decode(src, nil)
	}
}
