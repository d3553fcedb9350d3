package compiler

import (
	"fmt"
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/schema"
)

// Procedure is a compiled schema. It implements codec.Erased, so it can be
// used as the codec of a field in another schema.
type Procedure struct {
	name   string
	goType reflect.Type
	sig    Signature
	log    *zap.Logger

	// exactly one is set
	fields *fieldsPlan
	union  *unionPlan
}

type unionPlan struct {
	name         string
	discriminant codec.Erased
	goType       reflect.Type // nil for *Variant
	variants     []variantPlan
}

type variantPlan struct {
	name   string
	tag    any
	index  []int
	fields *fieldsPlan
}

var (
	_ codec.Erased      = (*Procedure)(nil)
	_ codec.Constrained = (*Procedure)(nil)
)

// Name returns the schema name.
func (p *Procedure) Name() string { return p.name }

// Type returns the Go type of decoded values.
func (p *Procedure) Type() reflect.Type { return p.goType }

// Signature returns the resolved caller requirements.
func (p *Procedure) Signature() Signature { return p.sig }

// Requirements implements codec.Constrained.
func (p *Procedure) Requirements() codec.Requirements { return p.sig.Requirements() }

// Decode decodes one value. A context of the wrong type or a source of the
// wrong kind is rejected before any input is read.
func (p *Procedure) Decode(src codec.Source, ctx any) (any, codec.Source, error) {
	if !p.sig.Open() {
		if err := codec.Check(p.sig.Requirements(), src, ctx); err != nil {
			return nil, src, errors.WithPath(err, p.name)
		}
	}
	if p.union != nil {
		return p.decodeUnion(src, ctx)
	}
	values, rest, err := p.fields.decode(src, ctx)
	if err != nil {
		return nil, rest, errors.WithPath(err, p.name)
	}
	out, err := p.fields.assemble(values, rest)
	if err != nil {
		return nil, rest, errors.WithPath(err, p.name)
	}
	return out, rest, nil
}

// Encode writes v, which must be of the procedure's type or a pointer to it.
func (p *Procedure) Encode(w io.Writer, v any, ctx any) error {
	if p.union != nil {
		return p.encodeUnion(w, v, ctx)
	}
	values, err := p.fields.extract(v)
	if err != nil {
		return err
	}
	if err := p.fields.encode(w, values, ctx); err != nil {
		return errors.WithPath(err, p.name)
	}
	return nil
}

// decodeUnion tries variants in declaration order from the same position.
// With a discriminant only variants whose tag matches are tried, and a
// variant whose fields fail falls through to the next one with the same tag.
func (p *Procedure) decodeUnion(src codec.Source, ctx any) (any, codec.Source, error) {
	u := p.union
	body := src
	var tag any
	if u.discriminant != nil {
		t, next, err := u.discriminant.Decode(src, nil)
		if err != nil {
			return nil, next, errors.WithPath(errors.WithPath(err, "discriminant"), p.name)
		}
		tag, body = t, next
	}

	for i := range u.variants {
		v := &u.variants[i]
		if u.discriminant != nil && !equal(tag, v.tag) {
			continue
		}
		values, rest, err := v.fields.decode(body, ctx)
		if err != nil {
			if ce := p.log.Check(zap.DebugLevel, "variant rejected"); ce != nil {
				ce.Write(
					zap.String("union", u.name),
					zap.String("variant", v.name),
					zap.Int("offset", body.Offset()),
					zap.Error(err),
				)
			}
			continue
		}
		out, err := u.assemble(v, values, tag, rest)
		if err != nil {
			return nil, rest, errors.WithPath(err, p.name)
		}
		return out, rest, nil
	}

	detail := "no variant matched"
	if u.discriminant != nil {
		detail = fmt.Sprintf("no variant matched discriminant %v", tag)
	}
	err := errors.InvalidInput(src.Offset(), detail)
	err.Path = []string{p.name}
	return nil, src, err
}

func (u *unionPlan) assemble(v *variantPlan, values []any, tag any, at codec.Source) (any, error) {
	if u.goType == nil {
		rec, _ := v.fields.assemble(values, at)
		return &Variant{Union: u.name, Name: v.name, Discriminant: tag, Fields: rec.(*Record)}, nil
	}
	out := reflect.New(u.goType).Elem()
	ptr := reflect.New(v.fields.goType)
	if err := v.fields.fill(ptr.Elem(), values, at); err != nil {
		return nil, err
	}
	out.FieldByIndex(v.index).Set(ptr)
	return out.Interface(), nil
}

func (p *Procedure) encodeUnion(w io.Writer, v any, ctx any) error {
	u := p.union
	vp, values, err := u.active(v)
	if err != nil {
		return errors.WithPath(err, p.name)
	}
	if u.discriminant != nil {
		if err := u.discriminant.Encode(w, vp.tag, nil); err != nil {
			return errors.WithPath(errors.WithPath(err, "discriminant"), p.name)
		}
	}
	if err := vp.fields.encode(w, values, ctx); err != nil {
		return errors.WithPath(errors.WithPath(err, vp.name), p.name)
	}
	return nil
}

// active finds the variant a union value holds and extracts its fields.
func (u *unionPlan) active(v any) (*variantPlan, []any, error) {
	if u.goType == nil {
		dv, ok := v.(*Variant)
		if !ok || dv == nil {
			return nil, nil, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), "*compiler.Variant")
		}
		for i := range u.variants {
			vp := &u.variants[i]
			if vp.name != dv.Name {
				continue
			}
			fields := dv.Fields
			if fields == nil {
				fields = &Record{Name: vp.name}
			}
			values, err := vp.fields.extract(fields)
			return vp, values, err
		}
		return nil, nil, errors.InvalidVariant(errors.PhaseEncode, nil, fmt.Sprintf("unknown variant %q", dv.Name))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, errors.NilPointer(errors.PhaseEncode, nil, rv.Type().String())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != u.goType {
		return nil, nil, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), u.goType.String())
	}

	var found *variantPlan
	var elem reflect.Value
	for i := range u.variants {
		vp := &u.variants[i]
		f := rv.FieldByIndex(vp.index)
		if f.IsNil() {
			continue
		}
		if found != nil {
			return nil, nil, errors.InvalidVariant(errors.PhaseEncode, nil,
				fmt.Sprintf("variants %q and %q both set", found.name, vp.name))
		}
		found, elem = vp, f.Elem()
	}
	if found == nil {
		return nil, nil, errors.InvalidVariant(errors.PhaseEncode, nil, "no variant set")
	}
	return found, found.fields.read(elem), nil
}

// Bind returns a typed view of p. T must be the procedure's Type or a
// pointer to it; a pointer view decodes into a freshly allocated value.
func Bind[T any](p *Procedure) (codec.Codec[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer && p.goType != nil && t.Elem() == p.goType {
		return pointerView[T]{p: p}, nil
	}
	return codec.Unerase[T](p)
}

type pointerView[T any] struct {
	p *Procedure
}

func (v pointerView[T]) Decode(src codec.Source, ctx any) (T, codec.Source, error) {
	var zero T
	out, rest, err := v.p.Decode(src, ctx)
	if err != nil {
		return zero, rest, err
	}
	ptr := reflect.New(v.p.goType)
	ptr.Elem().Set(reflect.ValueOf(out))
	return ptr.Interface().(T), rest, nil
}

func (v pointerView[T]) Encode(w io.Writer, val T, ctx any) error {
	return v.p.Encode(w, val, ctx)
}

func (v pointerView[T]) Requirements() codec.Requirements { return v.p.Requirements() }

// For compiles s for the Go type T and returns the typed codec.
func For[T any](c *Compiler, s schema.Type) (codec.Codec[T], error) {
	p, err := c.Compile(s, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return Bind[T](p)
}

// Dynamic compiles s into a procedure producing *Record or *Variant values.
func (c *Compiler) Dynamic(s schema.Type) (*Procedure, error) {
	return c.Compile(s, nil)
}
