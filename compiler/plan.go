package compiler

import (
	"fmt"
	"io"
	"reflect"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/schema"
)

// conversion between a codec's value type and the Go field holding it
type conversion uint8

const (
	convNone  conversion = iota // assignable
	convSame                    // same kind, named type differs
	convArray                   // codec slice into Go array
)

type fieldPlan struct {
	name    string
	codec   codec.Erased
	mode    schema.ContextMode
	compute schema.ContextFunc

	eq, ne    any
	hasEq     bool
	hasNe     bool
	match     func(any) bool
	matchName string

	// Go binding, unused for dynamic records
	index  []int
	goType reflect.Type
	conv   conversion
}

// fieldsPlan is the compiled field sequence of a struct or one variant.
type fieldsPlan struct {
	schemaName string
	fields     []fieldPlan
	names      []string
	goType     reflect.Type // nil for *Record
}

func (p *fieldsPlan) context(f *fieldPlan, values []any, parent any) any {
	switch f.mode {
	case schema.ContextInherit:
		return parent
	case schema.ContextComputed:
		return f.compute(schema.NewFrame(p.names, values), parent)
	default:
		return nil
	}
}

// decode runs every field in order from src. Assertions are checked right
// after the field is read and fail at the position after it.
func (p *fieldsPlan) decode(src codec.Source, ctx any) ([]any, codec.Source, error) {
	values := make([]any, 0, len(p.fields))
	rest := src
	for i := range p.fields {
		f := &p.fields[i]
		v, next, err := f.codec.Decode(rest, p.context(f, values, ctx))
		if err != nil {
			return nil, next, errors.WithPath(err, f.name)
		}
		if err := f.check(v, next); err != nil {
			return nil, next, err
		}
		values = append(values, v)
		rest = next
	}
	return values, rest, nil
}

func (f *fieldPlan) check(v any, at codec.Source) error {
	if f.hasEq && !equal(v, f.eq) {
		return errors.AssertionFailed(at.Offset(), f.name, fmt.Sprintf("got %v, want %v", v, f.eq), v)
	}
	if f.hasNe && equal(v, f.ne) {
		return errors.AssertionFailed(at.Offset(), f.name, fmt.Sprintf("must not be %v", v), v)
	}
	if f.match != nil && !f.match(v) {
		return errors.AssertionFailed(at.Offset(), f.name, fmt.Sprintf("%v does not match %s", v, f.matchName), v)
	}
	return nil
}

// encode writes every field in order. Fields asserting equality write the
// asserted literal.
func (p *fieldsPlan) encode(w io.Writer, values []any, ctx any) error {
	for i := range p.fields {
		f := &p.fields[i]
		v := values[i]
		if f.hasEq {
			v = f.eq
		}
		if err := f.codec.Encode(w, v, p.context(f, values, ctx)); err != nil {
			return errors.WithPath(err, f.name)
		}
	}
	return nil
}

// assemble builds the output value from decoded field values.
func (p *fieldsPlan) assemble(values []any, at codec.Source) (any, error) {
	if p.goType == nil {
		return &Record{Name: p.schemaName, Fields: p.names, Values: values}, nil
	}
	out := reflect.New(p.goType).Elem()
	if err := p.fill(out, values, at); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (p *fieldsPlan) fill(dst reflect.Value, values []any, at codec.Source) error {
	for i := range p.fields {
		f := &p.fields[i]
		if err := f.set(dst.FieldByIndex(f.index), values[i], at); err != nil {
			return err
		}
	}
	return nil
}

func (f *fieldPlan) set(dst reflect.Value, v any, at codec.Source) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		dst.SetZero()
		return nil
	}
	switch f.conv {
	case convSame:
		dst.Set(rv.Convert(dst.Type()))
	case convArray:
		if rv.Len() != dst.Len() {
			err := errors.TypeMismatch(errors.PhaseDecode, []string{f.name}, dst.Type().String(), rv.Type().String())
			err.Offset = at.Offset()
			err.Detail = fmt.Sprintf("decoded %d elements into array of %d", rv.Len(), dst.Len())
			return err
		}
		dst.Set(rv.Convert(dst.Type()))
	default:
		dst.Set(rv)
	}
	return nil
}

// extract reads field values out of v for encoding.
func (p *fieldsPlan) extract(v any) ([]any, error) {
	if p.goType == nil {
		rec, ok := v.(*Record)
		if !ok || rec == nil {
			return nil, errors.TypeMismatch(errors.PhaseEncode, []string{p.schemaName}, fmt.Sprintf("%T", v), "*compiler.Record")
		}
		if len(rec.Fields) != len(rec.Values) {
			err := errors.TypeMismatch(errors.PhaseEncode, []string{p.schemaName}, "*compiler.Record", "*compiler.Record")
			err.Detail = fmt.Sprintf("record has %d fields and %d values", len(rec.Fields), len(rec.Values))
			return nil, err
		}
		values := make([]any, len(p.fields))
		for i := range p.fields {
			f := &p.fields[i]
			fv, ok := rec.Get(f.name)
			if !ok && !f.hasEq {
				return nil, errors.FieldMissing(errors.PhaseEncode, []string{p.schemaName}, f.name)
			}
			values[i] = fv
		}
		return values, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.NilPointer(errors.PhaseEncode, []string{p.schemaName}, rv.Type().String())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != p.goType {
		return nil, errors.TypeMismatch(errors.PhaseEncode, []string{p.schemaName}, fmt.Sprintf("%T", v), p.goType.String())
	}
	return p.read(rv), nil
}

func (p *fieldsPlan) read(rv reflect.Value) []any {
	values := make([]any, len(p.fields))
	for i := range p.fields {
		values[i] = p.fields[i].get(rv.FieldByIndex(p.fields[i].index))
	}
	return values
}

func (f *fieldPlan) get(src reflect.Value) any {
	ct := f.codec.Type()
	switch f.conv {
	case convSame:
		return src.Convert(ct).Interface()
	case convArray:
		tmp := reflect.New(src.Type()).Elem()
		tmp.Set(src)
		return tmp.Slice(0, tmp.Len()).Convert(ct).Interface()
	default:
		return src.Interface()
	}
}

// bindable reports how a codec value of type ct is stored in a Go field of type gt.
func bindable(ct, gt reflect.Type) (conversion, bool) {
	switch {
	case ct.AssignableTo(gt):
		return convNone, true
	case ct.Kind() == gt.Kind() && ct.ConvertibleTo(gt) && gt.ConvertibleTo(ct):
		return convSame, true
	case ct.Kind() == reflect.Slice && gt.Kind() == reflect.Array && ct.Elem() == gt.Elem():
		return convArray, true
	}
	return convNone, false
}
