package layout

import (
	"fmt"
	"reflect"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/compiler"
	"github.com/wippyai/bincodec/extra"
)

var scalars = map[string]codec.Erased{
	"u8":      codec.Erase(codec.U8),
	"i8":      codec.Erase(codec.I8),
	"u16":     codec.Erase(codec.U16),
	"u32":     codec.Erase(codec.U32),
	"u64":     codec.Erase(codec.U64),
	"i16":     codec.Erase(codec.I16),
	"i32":     codec.Erase(codec.I32),
	"i64":     codec.Erase(codec.I64),
	"f32":     codec.Erase(codec.F32),
	"f64":     codec.Erase(codec.F64),
	"u16le":   codec.Erase(codec.U16LE),
	"u32le":   codec.Erase(codec.U32LE),
	"u64le":   codec.Erase(codec.U64LE),
	"i16le":   codec.Erase(codec.I16LE),
	"i32le":   codec.Erase(codec.I32LE),
	"i64le":   codec.Erase(codec.I64LE),
	"f32le":   codec.Erase(codec.F32LE),
	"f64le":   codec.Erase(codec.F64LE),
	"u16be":   codec.Erase(codec.U16BE),
	"u32be":   codec.Erase(codec.U32BE),
	"u64be":   codec.Erase(codec.U64BE),
	"i16be":   codec.Erase(codec.I16BE),
	"i32be":   codec.Erase(codec.I32BE),
	"i64be":   codec.Erase(codec.I64BE),
	"f32be":   codec.Erase(codec.F32BE),
	"f64be":   codec.Erase(codec.F64BE),
	"bool":    codec.Erase(codec.Bool),
	"uvarint": codec.Erase(codec.Uvarint),
	"varint":  codec.Erase(codec.Varint),
	"rest":    codec.Erase(codec.Rest()),
	"text":    codec.Erase(codec.RestString()),
	"unit":    codec.Erase(codec.Unit()),
	"never":   codec.Erase(extra.NeverCodec),
	"counted": codec.Erase(codec.CountedBytes()),
}

// lengths holds the codecs allowed as length prefixes, typed as
// codec.Codec[L] for an unsigned L.
var lengths = map[string]any{
	"u8":      codec.U8,
	"u16":     codec.U16,
	"u16le":   codec.U16LE,
	"u16be":   codec.U16BE,
	"u32":     codec.U32,
	"u32le":   codec.U32LE,
	"u32be":   codec.U32BE,
	"u64":     codec.U64,
	"u64le":   codec.U64LE,
	"u64be":   codec.U64BE,
	"uvarint": codec.Uvarint,
}

var (
	recordType  = reflect.TypeFor[*compiler.Record]()
	variantType = reflect.TypeFor[*compiler.Variant]()
)

// builder resolves type expressions against the types of one layout.
type builder struct {
	l *Layout
}

func (b *builder) build(e expr) (codec.Erased, error) {
	if e.isNum {
		return nil, fmt.Errorf("expected a type, got %d", e.num)
	}
	if c, ok := scalars[e.name]; ok && len(e.args) == 0 {
		return c, nil
	}

	switch e.name {
	case "bytes", "cow", "owned":
		if err := arity(e, 1); err != nil {
			return nil, err
		}
		return b.prefixed(e.name, e.args[0], nil)
	case "list", "zstd":
		if err := arity(e, 2); err != nil {
			return nil, err
		}
		elem, err := b.build(e.args[1])
		if err != nil {
			return nil, err
		}
		return b.prefixed(e.name, e.args[0], elem)
	case "fixed":
		if err := arity(e, 1); err != nil {
			return nil, err
		}
		if !e.args[0].isNum {
			return nil, fmt.Errorf("fixed: size must be a number, got %s", e.args[0])
		}
		return codec.Erase(codec.FixedBytes(e.args[0].num)), nil
	case "array":
		if err := arity(e, 2); err != nil {
			return nil, err
		}
		if !e.args[1].isNum {
			return nil, fmt.Errorf("array: length must be a number, got %s", e.args[1])
		}
		elem, err := b.build(e.args[0])
		if err != nil {
			return nil, err
		}
		return codec.Erase(codec.Array(codec.Any(elem), e.args[1].num)), nil
	case "many", "option", "box", "counted", "exhaustive":
		if err := arity(e, 1); err != nil {
			return nil, err
		}
		elem, err := b.build(e.args[0])
		if err != nil {
			return nil, err
		}
		return wrap(e.name, codec.Any(elem)), nil
	}

	if len(e.args) > 0 {
		return nil, fmt.Errorf("unknown type constructor %q", e.name)
	}
	return b.reference(e.name)
}

func wrap(name string, elem codec.Codec[any]) codec.Erased {
	switch name {
	case "many":
		return codec.Erase(codec.Many(elem))
	case "option":
		return codec.Erase(codec.Option(elem))
	case "box":
		return codec.Erase(codec.Box(elem))
	case "counted":
		return codec.Erase(codec.Counted(elem))
	default:
		return codec.Erase(extra.Exhaustive(elem))
	}
}

func (b *builder) prefixed(name string, length expr, elem codec.Erased) (codec.Erased, error) {
	lc, ok := lengths[length.name]
	if !ok || len(length.args) > 0 {
		return nil, fmt.Errorf("%s: %s is not a length type", name, length)
	}
	switch l := lc.(type) {
	case codec.Codec[uint8]:
		return withLength(name, l, elem), nil
	case codec.Codec[uint16]:
		return withLength(name, l, elem), nil
	case codec.Codec[uint32]:
		return withLength(name, l, elem), nil
	case codec.Codec[uint64]:
		return withLength(name, l, elem), nil
	}
	return nil, fmt.Errorf("%s: unsupported length %s", name, length)
}

func withLength[L extra.Length](name string, length codec.Codec[L], elem codec.Erased) codec.Erased {
	switch name {
	case "bytes":
		return codec.Erase(extra.Bytes(length))
	case "cow":
		return codec.Erase(extra.Cow(length))
	case "owned":
		return codec.Erase(extra.Owned(length))
	case "list":
		return codec.Erase(extra.Structs(length, codec.Any(elem)))
	default:
		return codec.Erase(extra.Compressed(length, codec.Any(elem)))
	}
}

// reference resolves a named layout type lazily, so types may refer to
// themselves or to types declared later.
func (b *builder) reference(name string) (codec.Erased, error) {
	d, ok := b.l.docs[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	typ := recordType
	if d.isUnion() {
		typ = variantType
	}
	return codec.Defer(typ, func() (codec.Erased, error) {
		p, err := b.l.Codec(name)
		if err != nil {
			return nil, err
		}
		return p, nil
	}), nil
}

func arity(e expr, n int) error {
	if len(e.args) != n {
		return fmt.Errorf("%s takes %d type argument(s), got %d", e.name, n, len(e.args))
	}
	return nil
}
