package wasmmem

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/extra"
)

// one page of memory exported as "memory"
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

func newMemory(t *testing.T) api.Memory {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.InstantiateWithConfig(ctx, memoryModule, wazero.NewModuleConfig().WithName("mem"))
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		t.Fatal("memory not exported")
	}
	if mem.Size() != 65536 {
		t.Fatalf("Size = %d, want one page", mem.Size())
	}
	return mem
}

func recordCodec() codec.Codec[codec.T2[uint32, extra.VarBytes[uint8]]] {
	return codec.Tuple2(codec.U32LE, extra.Bytes[uint8](codec.U8))
}

func TestRoundTrip(t *testing.T) {
	mem := newMemory(t)
	c := recordCodec()
	payload, err := extra.NewVarBytes[uint8]([]byte("guest"))
	if err != nil {
		t.Fatal(err)
	}
	in := codec.T2[uint32, extra.VarBytes[uint8]]{V0: 0xdeadbeef, V1: payload}

	end, err := Encode(c, mem, 1024, in, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if end != 1024+4+1+5 {
		t.Errorf("end = %d, want %d", end, 1024+4+1+5)
	}

	raw, ok := mem.Read(1024, 4)
	if !ok || !bytes.Equal(raw, []byte{0xef, 0xbe, 0xad, 0xde}) {
		t.Errorf("memory = %x", raw)
	}

	out, next, err := Decode(c, mem, 1024, end-1024, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if next != end {
		t.Errorf("next = %d, want %d", next, end)
	}
	if out.V0 != in.V0 || string(out.V1.Bytes()) != "guest" {
		t.Errorf("Decode = %x %q", out.V0, out.V1.Bytes())
	}
}

func TestDecode_ErrorsUseGuestAddresses(t *testing.T) {
	mem := newMemory(t)
	if !mem.Write(2048, []byte{0x01, 0x02}) {
		t.Fatal("write failed")
	}

	_, next, err := Decode(codec.U32LE, mem, 2048, 2, nil)
	if !stderrors.Is(err, errors.ErrNotEnoughBytes) {
		t.Fatalf("err = %v", err)
	}
	if next != 2048 {
		t.Errorf("next = %d, want 2048", next)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Offset != 2048 {
		t.Errorf("error offset = %v, want 2048", err)
	}
}

func TestSource_OutOfRange(t *testing.T) {
	mem := newMemory(t)
	if _, err := Source(mem, 65530, 16); !stderrors.Is(err, errors.ErrNotEnoughBytes) {
		t.Errorf("err = %v", err)
	}

	src, err := Source(mem, 65530, 6)
	if err != nil {
		t.Fatal(err)
	}
	if src.Offset() != 65530 || src.Len() != 6 {
		t.Errorf("Source = offset %d len %d", src.Offset(), src.Len())
	}
}

func TestEncode_OutOfRange(t *testing.T) {
	mem := newMemory(t)
	end, err := Encode(codec.U64LE, mem, 65532, 1, nil)
	if errors.KindOf(err) != errors.KindIO {
		t.Errorf("err = %v, want io", err)
	}
	if end != 65532 {
		t.Errorf("end = %d, want 65532", end)
	}

	raw, _ := mem.Read(65532, 4)
	if !bytes.Equal(raw, []byte{0, 0, 0, 0}) {
		t.Errorf("memory changed: %x", raw)
	}
}

func TestWriter(t *testing.T) {
	mem := newMemory(t)
	w := NewWriter(mem, 10)
	n, err := w.Write([]byte{1, 2, 3})
	if err != nil || n != 3 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if w.Offset() != 13 {
		t.Errorf("Offset = %d, want 13", w.Offset())
	}

	if _, err := NewWriter(mem, 65535).Write([]byte{1, 2}); err == nil {
		t.Error("write past the end should fail")
	}
}
