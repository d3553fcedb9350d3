package main

import (
	"bytes"
	"encoding/hex"
	"reflect"

	"github.com/goccy/go-json"

	"github.com/wippyai/bincodec/compiler"
	"github.com/wippyai/bincodec/extra"
)

// object is a JSON object that keeps field order.
type object struct {
	keys []string
	vals []any
}

func (o *object) add(k string, v any) {
	o.keys = append(o.keys, k)
	o.vals = append(o.vals, v)
}

func (o *object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(o.vals[i])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

type byteViewer interface {
	Bytes() []byte
}

type itemLister interface {
	Items() []any
}

// plain converts a decoded layout value into something that marshals to
// readable JSON. Byte strings become hex.
func plain(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case *compiler.Record:
		if v == nil {
			return nil
		}
		o := &object{}
		for i, name := range v.Fields {
			o.add(name, plain(v.Values[i]))
		}
		return o
	case *compiler.Variant:
		if v == nil {
			return nil
		}
		o := &object{}
		o.add("variant", v.Name)
		if v.Discriminant != nil {
			o.add("tag", plain(v.Discriminant))
		}
		if v.Fields != nil {
			for i, name := range v.Fields.Fields {
				o.add(name, plain(v.Fields.Values[i]))
			}
		}
		return o
	case *any:
		if v == nil {
			return nil
		}
		return plain(*v)
	case []byte:
		return hex.EncodeToString(v)
	case byteViewer:
		return hex.EncodeToString(v.Bytes())
	case itemLister:
		return plainList(v.Items())
	case []any:
		return plainList(v)
	case struct{}, extra.Never:
		return nil
	case string, bool:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return plain(rv.Elem().Interface())
	}
	return v
}

func plainList(items []any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = plain(it)
	}
	return out
}

func render(v any) ([]byte, error) {
	return json.MarshalIndent(plain(v), "", "  ")
}
