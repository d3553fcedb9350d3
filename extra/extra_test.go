package extra

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/wippyai/bincodec/codec"
	cerrors "github.com/wippyai/bincodec/errors"
)

func TestVarBytes_LengthPrefixConsistency(t *testing.T) {
	c := Bytes(codec.U8)

	t.Run("exact", func(t *testing.T) {
		v, rest, err := codec.Decode(c, []byte{3, 0xaa, 0xbb, 0xcc}, nil)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if v.Len() != 3 || !bytes.Equal(v.Bytes(), []byte{0xaa, 0xbb, 0xcc}) {
			t.Errorf("Decode = %d %x", v.Len(), v.Bytes())
		}
		if len(rest) != 0 {
			t.Errorf("rest = %x", rest)
		}
	})

	t.Run("short", func(t *testing.T) {
		_, rest, err := c.Decode(codec.FromBytes([]byte{3, 0xaa, 0xbb}), nil)
		if !errors.Is(err, cerrors.ErrNotEnoughBytes) {
			t.Fatalf("err = %v", err)
		}
		// reported right after the length
		if rest.Offset() != 1 {
			t.Errorf("rest.Offset() = %d, want 1", rest.Offset())
		}
		var e *cerrors.Error
		if !errors.As(err, &e) || e.Offset != 1 {
			t.Errorf("error offset = %v, want 1", err)
		}
	})

	t.Run("missing length", func(t *testing.T) {
		_, _, err := codec.Decode(Bytes(codec.U16BE), []byte{0}, nil)
		if !errors.Is(err, cerrors.ErrNotEnoughBytes) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("borrowed", func(t *testing.T) {
		data := []byte{1, 0x42}
		v, _, err := codec.Decode(c, data, nil)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if &v.Bytes()[0] != &data[1] {
			t.Error("VarBytes should view the source")
		}
	})
}

func TestVarBytes_RoundTrip(t *testing.T) {
	v, err := NewVarBytes[uint16]([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 5 {
		t.Errorf("Len = %d, want 5", v.Len())
	}

	out, err := codec.Encode(Bytes(codec.U16LE), v, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := []byte{5, 0, 'h', 'e', 'l', 'l', 'o'}; !bytes.Equal(out, want) {
		t.Errorf("Encode = %x, want %x", out, want)
	}

	got, err := codec.DecodeExact(Bytes(codec.U16LE), out, nil)
	if err != nil {
		t.Fatalf("DecodeExact: %v", err)
	}
	if !bytes.Equal(got.Bytes(), v.Bytes()) {
		t.Errorf("round trip = %q", got.Bytes())
	}
}

func TestNewVarBytes_Overflow(t *testing.T) {
	if _, err := NewVarBytes[uint8](make([]byte, 256)); cerrors.KindOf(err) != cerrors.KindOverflow {
		t.Errorf("256 bytes under u8 err = %v", err)
	}
	if _, err := NewOwnedBytes[uint8](make([]byte, 255)); err != nil {
		t.Errorf("255 bytes under u8: %v", err)
	}
	if _, err := NewVarStructs[uint8](make([]int, 300)); cerrors.KindOf(err) != cerrors.KindOverflow {
		t.Errorf("300 items under u8 err = %v", err)
	}
}

func TestCowBytes(t *testing.T) {
	data := []byte{2, 'o', 'k'}
	v, _, err := codec.Decode(Cow(codec.U8), data, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Owned() || &v.Bytes()[0] != &data[1] {
		t.Fatal("decoded CowBytes should borrow the source")
	}

	m := v.Mutable()
	m[0] = 'O'
	if !v.Owned() {
		t.Error("Mutable should take ownership")
	}
	if data[1] != 'o' {
		t.Error("source changed through Mutable")
	}
	if string(v.Bytes()) != "Ok" {
		t.Errorf("Bytes = %q, want Ok", v.Bytes())
	}

	out, err := codec.Encode(Cow(codec.U8), v, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, []byte{2, 'O', 'k'}) {
		t.Errorf("Encode = %x", out)
	}
}

func TestOwnedBytes(t *testing.T) {
	data := []byte{2, 'o', 'k'}
	v, _, err := codec.Decode(Owned(codec.U8), data, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v.Bytes()[0] = 'X'
	if data[1] != 'o' {
		t.Error("OwnedBytes should copy the source")
	}
}

type point struct {
	X, Y uint8
}

type pointCodec struct{}

func (pointCodec) Decode(src codec.Source, ctx any) (point, codec.Source, error) {
	v, rest, err := codec.Tuple2(codec.U8, codec.U8).Decode(src, ctx)
	return point{v.V0, v.V1}, rest, err
}

func (pointCodec) Encode(w io.Writer, p point, ctx any) error {
	return codec.Tuple2(codec.U8, codec.U8).Encode(w, codec.T2[uint8, uint8]{V0: p.X, V1: p.Y}, ctx)
}

func TestVarStructs(t *testing.T) {
	c := Structs(codec.U8, codec.Codec[point](pointCodec{}))

	v, rest, err := codec.Decode(c, []byte{2, 1, 2, 3, 4, 9}, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if v.Len() != 2 || !reflect.DeepEqual(v.Items(), []point{{1, 2}, {3, 4}}) {
		t.Errorf("Decode = %d %v", v.Len(), v.Items())
	}
	if !bytes.Equal(rest, []byte{9}) {
		t.Errorf("rest = %x, want 09", rest)
	}

	// a short buffer is a hard failure
	if _, _, err := codec.Decode(c, []byte{2, 1, 2, 3}, nil); !errors.Is(err, cerrors.ErrNotEnoughBytes) {
		t.Errorf("short err = %v", err)
	}

	built, err := NewVarStructs[uint8]([]point{{5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := codec.Encode(c, built, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, []byte{1, 5, 6}) {
		t.Errorf("Encode = %x, want 010506", out)
	}
}

func TestVarStructs_PassesContext(t *testing.T) {
	c := Structs(codec.U8, codec.Counted(codec.U8))
	v, _, err := codec.Decode(c, []byte{2, 1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(v.Items(), [][]uint8{{1, 2}, {3, 4}}) {
		t.Errorf("Items = %v", v.Items())
	}
}

func TestExhaustive(t *testing.T) {
	c := Exhaustive(codec.U16BE)

	v, err := codec.DecodeExact(c, []byte{0, 1, 0, 2}, nil)
	if err != nil {
		t.Fatalf("DecodeExact: %v", err)
	}
	if !reflect.DeepEqual(v, []uint16{1, 2}) {
		t.Errorf("DecodeExact = %v", v)
	}

	_, rest, err := c.Decode(codec.FromBytes([]byte{0, 1, 0}), nil)
	if !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("trailing byte err = %v", err)
	}
	if rest.Offset() != 2 {
		t.Errorf("rest.Offset() = %d, want 2", rest.Offset())
	}

	v, err = codec.DecodeExact(c, nil, nil)
	if err != nil || len(v) != 0 {
		t.Errorf("empty input = %v, %v", v, err)
	}
}

func TestNever(t *testing.T) {
	_, rest, err := NeverCodec.Decode(codec.FromBytesAt([]byte{1}, 4), nil)
	if !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("Decode err = %v", err)
	}
	if rest.Offset() != 4 {
		t.Errorf("rest.Offset() = %d, want 4", rest.Offset())
	}

	var buf bytes.Buffer
	err = NeverCodec.Encode(&buf, Never{}, nil)
	if cerrors.KindOf(err) != cerrors.KindUnsupported {
		t.Errorf("Encode err = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Encode wrote %d bytes", buf.Len())
	}

	// an Option over Never is always absent
	p, _, err := codec.Decode(codec.Option(NeverCodec), []byte{1}, nil)
	if err != nil || p != nil {
		t.Errorf("Option(Never) = %v, %v", p, err)
	}
}

func TestCompressed(t *testing.T) {
	c := Compressed(codec.U32LE, Exhaustive(codec.U16BE))
	values := make([]uint16, 512)
	for i := range values {
		values[i] = uint16(i % 7)
	}

	out, err := codec.Encode(c, values, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) >= 2*len(values) {
		t.Errorf("compressed %d bytes into %d", 2*len(values), len(out))
	}

	got, rest, err := codec.Decode(c, append(out, 0xee), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Error("round trip changed the values")
	}
	if !bytes.Equal(rest, []byte{0xee}) {
		t.Errorf("rest = %x, want ee", rest)
	}
}

func TestCompressed_Corrupt(t *testing.T) {
	c := Compressed(codec.U8, codec.Rest())
	if _, _, err := codec.Decode(c, []byte{3, 1, 2, 3}, nil); !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("garbage frame err = %v", err)
	}
	if _, _, err := codec.Decode(c, []byte{3, 1}, nil); !errors.Is(err, cerrors.ErrNotEnoughBytes) {
		t.Errorf("short frame err = %v", err)
	}
}
