package layout

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/compiler"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/extra"
)

const packetLayout = `
types:
  - name: packet
    source: bytes
    fields:
      - name: magic
        type: fixed<2>
        assert_eq: "PK"
      - name: version
        type: u8
        one_of: [1, 2]
      - name: count
        type: u8
      - name: items
        type: counted<item>
        context: {field: count}
      - name: trailer
        type: option<u16be>
  - name: item
    discriminant: u8
    variants:
      - name: int
        tag: 1
        fields:
          - {name: value, type: i32le}
      - name: blob
        tag: 2
        fields:
          - {name: data, type: "bytes<u8>"}
      - name: tree
        tag: 3
        fields:
          - {name: children, type: "list<u8, item>"}
  - name: line
    source: text
    fields:
      - {name: body, type: text}
`

var packetData = []byte{
	'P', 'K', 0x01, 0x02,
	0x01, 0x05, 0x00, 0x00, 0x00,
	0x03, 0x01, 0x02, 0x02, 'h', 'i',
}

func mustParse(t *testing.T, src string) *Layout {
	t.Helper()
	l, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return l
}

func mustCodec(t *testing.T, l *Layout, name string) *compiler.Procedure {
	t.Helper()
	p, err := l.Codec(name)
	if err != nil {
		t.Fatalf("Codec(%q): %v", name, err)
	}
	return p
}

func TestParse_Names(t *testing.T) {
	l := mustParse(t, packetLayout)
	if got := l.Names(); !reflect.DeepEqual(got, []string{"packet", "item", "line"}) {
		t.Errorf("Names = %v", got)
	}

	s, ok := l.Schema("item")
	if !ok || s.TypeName() != "item" {
		t.Errorf("Schema(item) = %v, %v", s, ok)
	}
}

func TestDecode_Packet(t *testing.T) {
	l := mustParse(t, packetLayout)
	p := mustCodec(t, l, "packet")

	v, rest, err := p.Decode(codec.FromBytes(packetData), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rest.Len() != 0 {
		t.Errorf("%d bytes left", rest.Len())
	}

	rec := v.(*compiler.Record)
	if want := []string{"magic", "version", "count", "items", "trailer"}; !reflect.DeepEqual(rec.Fields, want) {
		t.Errorf("Fields = %v", rec.Fields)
	}
	if version, _ := rec.Get("version"); version != uint8(1) {
		t.Errorf("version = %v", version)
	}

	items, _ := rec.Get("items")
	list := items.([]any)
	if len(list) != 2 {
		t.Fatalf("got %d items, want 2", len(list))
	}

	first := list[0].(*compiler.Variant)
	if value, _ := first.Fields.Get("value"); first.Name != "int" || value != int32(5) {
		t.Errorf("first = %s %v", first.Name, value)
	}

	tree := list[1].(*compiler.Variant)
	if tree.Name != "tree" || tree.Discriminant != uint8(3) {
		t.Errorf("second = %s tag %v", tree.Name, tree.Discriminant)
	}
	children, _ := tree.Fields.Get("children")
	kids := children.(extra.VarStructs[uint8, any]).Items()
	if len(kids) != 1 {
		t.Fatalf("got %d children, want 1", len(kids))
	}
	blob := kids[0].(*compiler.Variant)
	data, _ := blob.Fields.Get("data")
	if got := data.(extra.VarBytes[uint8]).Bytes(); string(got) != "hi" {
		t.Errorf("blob data = %q", got)
	}

	if trailer, _ := rec.Get("trailer"); trailer.(*any) != nil {
		t.Errorf("trailer = %v, want absent", trailer)
	}

	var buf bytes.Buffer
	if err := p.Encode(&buf, rec, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), packetData) {
		t.Errorf("Encode = %x, want %x", buf.Bytes(), packetData)
	}
}

func TestDecode_Assertions(t *testing.T) {
	p := mustCodec(t, mustParse(t, packetLayout), "packet")

	bad := append([]byte("ZZ"), packetData[2:]...)
	if _, _, err := p.Decode(codec.FromBytes(bad), nil); !stderrors.Is(err, errors.ErrAssertionFailed) {
		t.Errorf("bad magic err = %v", err)
	}

	bad = append([]byte("PK\x07"), packetData[3:]...)
	_, rest, err := p.Decode(codec.FromBytes(bad), nil)
	if !stderrors.Is(err, errors.ErrAssertionFailed) {
		t.Errorf("bad version err = %v", err)
	}
	if rest.Offset() != 3 {
		t.Errorf("rest.Offset() = %d, want 3", rest.Offset())
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	p := mustCodec(t, mustParse(t, packetLayout), "item")

	_, rest, err := p.Decode(codec.FromBytes([]byte{0x09}), nil)
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
	if rest.Offset() != 0 {
		t.Errorf("rest.Offset() = %d, want 0", rest.Offset())
	}
}

func TestDecode_TextSource(t *testing.T) {
	p := mustCodec(t, mustParse(t, packetLayout), "line")

	v, _, err := p.Decode(codec.FromString("hello"), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body, _ := v.(*compiler.Record).Get("body"); body != "hello" {
		t.Errorf("body = %v", body)
	}

	if _, _, err := p.Decode(codec.FromBytes([]byte("hello")), nil); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("byte source err = %v", err)
	}
}

func TestContextValue(t *testing.T) {
	l := mustParse(t, `
types:
  - name: pair
    fields:
      - name: words
        type: counted<u16be>
        context: {value: 2}
      - name: tail
        type: zstd<u32le, many<u8>>
`)
	p := mustCodec(t, l, "pair")

	rec := compiler.NewRecord("pair").
		Set("words", []any{uint16(1), uint16(2)}).
		Set("tail", []any{uint8(7), uint8(8)})
	var buf bytes.Buffer
	if err := p.Encode(&buf, rec, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes()[:4], []byte{0, 1, 0, 2}) {
		t.Errorf("words = %x", buf.Bytes()[:4])
	}

	v, rest, err := p.Decode(codec.FromBytes(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rest.Len() != 0 {
		t.Errorf("%d bytes left", rest.Len())
	}
	if tail, _ := v.(*compiler.Record).Get("tail"); !reflect.DeepEqual(tail, []any{uint8(7), uint8(8)}) {
		t.Errorf("tail = %v", tail)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown constructor", "types: [{name: a, fields: [{name: x, type: 'foo<u8>'}]}]"},
		{"unknown reference", "types: [{name: a, fields: [{name: x, type: b}]}]"},
		{"bad length", "types: [{name: a, fields: [{name: x, type: 'bytes<i8>'}]}]"},
		{"array without size", "types: [{name: a, fields: [{name: x, type: 'array<u8, u8>'}]}]"},
		{"wrong arity", "types: [{name: a, fields: [{name: x, type: 'option<u8, u8>'}]}]"},
		{"duplicate type", "types: [{name: a}, {name: a}]"},
		{"duplicate field", "types: [{name: a, fields: [{name: x, type: u8}, {name: x, type: u8}]}]"},
		{"bad context", "types: [{name: a, fields: [{name: x, type: u8, context: sideways}]}]"},
		{"unknown key", "types: [{name: a, colour: red}]"},
		{"tag without discriminant", "types: [{name: a, variants: [{name: v, tag: 1}]}]"},
		{"bad source", "types: [{name: a, source: tape}]"},
		{"tag overflow", "types: [{name: a, discriminant: u8, variants: [{name: v, tag: 300}]}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse([]byte(tt.src), nil)
			if err == nil {
				// some mistakes only surface when the type is compiled
				_, err = l.Codec("a")
			}
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseExpr(t *testing.T) {
	for _, s := range []string{"u8", "list<u16le, option<u8>>", "array<zstd<u32le, rest>, 4>"} {
		e, err := parseExpr(s)
		if err != nil {
			t.Errorf("parseExpr(%q): %v", s, err)
			continue
		}
		if e.String() != s {
			t.Errorf("parseExpr(%q).String() = %q", s, e.String())
		}
	}
	for _, s := range []string{"", "list<u8", "u8>", "3", "list<u8,>", "a b"} {
		if _, err := parseExpr(s); err == nil {
			t.Errorf("parseExpr(%q) should fail", s)
		}
	}
}

func TestCodec_Cached(t *testing.T) {
	l := mustParse(t, packetLayout)
	if mustCodec(t, l, "item") != mustCodec(t, l, "item") {
		t.Error("Codec should return the cached procedure")
	}
	if _, err := l.Codec("missing"); err == nil {
		t.Error("unknown type should fail")
	}
}
