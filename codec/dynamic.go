package codec

import (
	"io"
	"reflect"
	"sync"
)

type anyCodec struct {
	e Erased
}

// Any views an erased codec as Codec[any], so generic combinators can be
// assembled at run time from erased parts:
//
//	list := codec.Erase(codec.Many(codec.Any(elem)))
func Any(e Erased) Codec[any] {
	return anyCodec{e: e}
}

func (a anyCodec) Decode(src Source, ctx any) (any, Source, error) {
	return a.e.Decode(src, ctx)
}

func (a anyCodec) Encode(w io.Writer, v any, ctx any) error {
	return a.e.Encode(w, v, ctx)
}

func (a anyCodec) Requirements() Requirements {
	if c, ok := a.e.(Constrained); ok {
		return c.Requirements()
	}
	return Requirements{}
}

type deferred struct {
	typ     reflect.Type
	once    sync.Once
	resolve func() (Erased, error)
	target  Erased
	err     error
}

// Defer returns a codec of type typ that is resolved on first use. It makes
// self-referencing definitions possible; the resolved codec must have the
// declared type.
func Defer(typ reflect.Type, resolve func() (Erased, error)) Erased {
	return &deferred{typ: typ, resolve: resolve}
}

func (d *deferred) get() (Erased, error) {
	d.once.Do(func() {
		d.target, d.err = d.resolve()
	})
	return d.target, d.err
}

func (d *deferred) Type() reflect.Type { return d.typ }

func (d *deferred) Decode(src Source, ctx any) (any, Source, error) {
	t, err := d.get()
	if err != nil {
		return nil, src, err
	}
	return t.Decode(src, ctx)
}

func (d *deferred) Encode(w io.Writer, v any, ctx any) error {
	t, err := d.get()
	if err != nil {
		return err
	}
	return t.Encode(w, v, ctx)
}
