package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/wippyai/bincodec/errors"
)

// Codec decodes values of type T from a Source and encodes them to a writer.
//
// Decode returns the value and the unconsumed remainder. On failure it
// returns the zero value, the position at failure and a *errors.Error.
// Encode writes exactly the bytes Decode consumes for the same value.
type Codec[T any] interface {
	Decode(src Source, ctx any) (T, Source, error)
	Encode(w io.Writer, v T, ctx any) error
}

// Erased is a Codec with its value type hidden, used where codecs of
// different types are stored together (schemas, compiled procedures).
type Erased interface {
	Decode(src Source, ctx any) (any, Source, error)
	Encode(w io.Writer, v any, ctx any) error
	Type() reflect.Type
}

// Requirements describes what a codec expects from its caller.
// A nil Context accepts any context value.
type Requirements struct {
	Context reflect.Type
	Source  SourceKind
}

// Constrained is implemented by codecs with caller requirements. The schema
// compiler merges these into the signature of the enclosing procedure.
type Constrained interface {
	Requirements() Requirements
}

type erased[T any] struct {
	c   Codec[T]
	typ reflect.Type
}

// Erase hides the value type of c.
func Erase[T any](c Codec[T]) Erased {
	if e, ok := c.(typed[T]); ok {
		return e.e
	}
	return erased[T]{c: c, typ: reflect.TypeFor[T]()}
}

func (e erased[T]) Decode(src Source, ctx any) (any, Source, error) {
	v, rest, err := e.c.Decode(src, ctx)
	if err != nil {
		return nil, rest, err
	}
	return v, rest, nil
}

func (e erased[T]) Encode(w io.Writer, v any, ctx any) error {
	if v == nil {
		var zero T
		return e.c.Encode(w, zero, ctx)
	}
	tv, ok := v.(T)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), e.typ.String())
	}
	return e.c.Encode(w, tv, ctx)
}

func (e erased[T]) Type() reflect.Type { return e.typ }

func (e erased[T]) Requirements() Requirements {
	if c, ok := e.c.(Constrained); ok {
		return c.Requirements()
	}
	return Requirements{}
}

type typed[T any] struct {
	e Erased
}

// Unerase restores a typed view of e. It fails when the erased value type is
// not T.
func Unerase[T any](e Erased) (Codec[T], error) {
	if ec, ok := e.(erased[T]); ok {
		return ec.c, nil
	}
	want := reflect.TypeFor[T]()
	if e.Type() != want {
		return nil, errors.TypeMismatch(errors.PhaseCompile, nil, want.String(), e.Type().String())
	}
	return typed[T]{e: e}, nil
}

func (t typed[T]) Decode(src Source, ctx any) (T, Source, error) {
	v, rest, err := t.e.Decode(src, ctx)
	if err != nil {
		var zero T
		return zero, rest, err
	}
	tv, _ := v.(T)
	return tv, rest, nil
}

func (t typed[T]) Encode(w io.Writer, v T, ctx any) error {
	return t.e.Encode(w, v, ctx)
}

func (t typed[T]) Requirements() Requirements {
	if c, ok := t.e.(Constrained); ok {
		return c.Requirements()
	}
	return Requirements{}
}

type required struct {
	Erased
	req Requirements
}

// Requires pins e to a context type and source kind. Decoding rejects a
// non-nil context of another type and a source of the wrong kind.
func Requires(e Erased, req Requirements) Erased {
	return required{Erased: e, req: req}
}

func (r required) Requirements() Requirements { return r.req }

func (r required) Decode(src Source, ctx any) (any, Source, error) {
	if err := Check(r.req, src, ctx); err != nil {
		return nil, src, err
	}
	return r.Erased.Decode(src, ctx)
}

// Check validates a source and context against req.
func Check(req Requirements, src Source, ctx any) error {
	if !req.Source.Accepts(src) {
		return errors.InvalidInput(src.Offset(), fmt.Sprintf("expected %s source", req.Source))
	}
	if req.Context != nil && ctx != nil && !reflect.TypeOf(ctx).AssignableTo(req.Context) {
		err := errors.TypeMismatch(errors.PhaseDecode, nil, reflect.TypeOf(ctx).String(), req.Context.String())
		err.Offset = src.Offset()
		err.Detail = "context type"
		return err
	}
	return nil
}

// Write writes p to w, wrapping a sink failure as an encode IO error.
func Write(w io.Writer, p []byte) error {
	if _, err := w.Write(p); err != nil {
		return errors.IO(err)
	}
	return nil
}
