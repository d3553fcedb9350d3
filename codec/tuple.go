package codec

import (
	"io"

	"github.com/wippyai/bincodec/errors"
)

// Tuples decode their elements left to right, each from the remainder left
// by its predecessor, and stop at the first failure.

type step func(src Source, ctx any) (Source, error)
type put func(w io.Writer, ctx any) error

func into[T any](c Codec[T], dst *T) step {
	return func(src Source, ctx any) (Source, error) {
		v, rest, err := c.Decode(src, ctx)
		if err != nil {
			return rest, err
		}
		*dst = v
		return rest, nil
	}
}

func from[T any](c Codec[T], v T) put {
	return func(w io.Writer, ctx any) error {
		return c.Encode(w, v, ctx)
	}
}

func sequence(src Source, ctx any, steps ...step) (Source, error) {
	rest := src
	for i, s := range steps {
		next, err := s(rest, ctx)
		if err != nil {
			return next, errors.WithPath(err, index(i))
		}
		rest = next
	}
	return rest, nil
}

func emit(w io.Writer, ctx any, puts ...put) error {
	for i, p := range puts {
		if err := p(w, ctx); err != nil {
			return errors.WithPath(err, index(i))
		}
	}
	return nil
}

// T2 is a pair.
type T2[A, B any] struct {
	V0 A
	V1 B
}

// T3 is a 3-tuple.
type T3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

// T4 is a 4-tuple.
type T4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

// T5 is a 5-tuple.
type T5[A, B, C, D, E any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
}

// T6 is a 6-tuple.
type T6[A, B, C, D, E, F any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
}

// T7 is a 7-tuple.
type T7[A, B, C, D, E, F, G any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
}

// T8 is an 8-tuple.
type T8[A, B, C, D, E, F, G, H any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
}

type tuple2[A, B any] struct {
	a Codec[A]
	b Codec[B]
}

// Tuple2 returns the codec for T2.
func Tuple2[A, B any](a Codec[A], b Codec[B]) Codec[T2[A, B]] {
	return tuple2[A, B]{a, b}
}

func (t tuple2[A, B]) Decode(src Source, ctx any) (T2[A, B], Source, error) {
	var v T2[A, B]
	rest, err := sequence(src, ctx, into(t.a, &v.V0), into(t.b, &v.V1))
	if err != nil {
		return T2[A, B]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple2[A, B]) Encode(w io.Writer, v T2[A, B], ctx any) error {
	return emit(w, ctx, from(t.a, v.V0), from(t.b, v.V1))
}

type tuple3[A, B, C any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
}

// Tuple3 returns the codec for T3.
func Tuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[T3[A, B, C]] {
	return tuple3[A, B, C]{a, b, c}
}

func (t tuple3[A, B, C]) Decode(src Source, ctx any) (T3[A, B, C], Source, error) {
	var v T3[A, B, C]
	rest, err := sequence(src, ctx, into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2))
	if err != nil {
		return T3[A, B, C]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple3[A, B, C]) Encode(w io.Writer, v T3[A, B, C], ctx any) error {
	return emit(w, ctx, from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2))
}

type tuple4[A, B, C, D any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
	d Codec[D]
}

// Tuple4 returns the codec for T4.
func Tuple4[A, B, C, D any](a Codec[A], b Codec[B], c Codec[C], d Codec[D]) Codec[T4[A, B, C, D]] {
	return tuple4[A, B, C, D]{a, b, c, d}
}

func (t tuple4[A, B, C, D]) Decode(src Source, ctx any) (T4[A, B, C, D], Source, error) {
	var v T4[A, B, C, D]
	rest, err := sequence(src, ctx,
		into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2), into(t.d, &v.V3))
	if err != nil {
		return T4[A, B, C, D]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple4[A, B, C, D]) Encode(w io.Writer, v T4[A, B, C, D], ctx any) error {
	return emit(w, ctx,
		from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2), from(t.d, v.V3))
}

type tuple5[A, B, C, D, E any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
	d Codec[D]
	e Codec[E]
}

// Tuple5 returns the codec for T5.
func Tuple5[A, B, C, D, E any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E]) Codec[T5[A, B, C, D, E]] {
	return tuple5[A, B, C, D, E]{a, b, c, d, e}
}

func (t tuple5[A, B, C, D, E]) Decode(src Source, ctx any) (T5[A, B, C, D, E], Source, error) {
	var v T5[A, B, C, D, E]
	rest, err := sequence(src, ctx,
		into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2), into(t.d, &v.V3),
		into(t.e, &v.V4))
	if err != nil {
		return T5[A, B, C, D, E]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple5[A, B, C, D, E]) Encode(w io.Writer, v T5[A, B, C, D, E], ctx any) error {
	return emit(w, ctx,
		from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2), from(t.d, v.V3),
		from(t.e, v.V4))
}

type tuple6[A, B, C, D, E, F any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
	d Codec[D]
	e Codec[E]
	f Codec[F]
}

// Tuple6 returns the codec for T6.
func Tuple6[A, B, C, D, E, F any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F]) Codec[T6[A, B, C, D, E, F]] {
	return tuple6[A, B, C, D, E, F]{a, b, c, d, e, f}
}

func (t tuple6[A, B, C, D, E, F]) Decode(src Source, ctx any) (T6[A, B, C, D, E, F], Source, error) {
	var v T6[A, B, C, D, E, F]
	rest, err := sequence(src, ctx,
		into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2), into(t.d, &v.V3),
		into(t.e, &v.V4), into(t.f, &v.V5))
	if err != nil {
		return T6[A, B, C, D, E, F]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple6[A, B, C, D, E, F]) Encode(w io.Writer, v T6[A, B, C, D, E, F], ctx any) error {
	return emit(w, ctx,
		from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2), from(t.d, v.V3),
		from(t.e, v.V4), from(t.f, v.V5))
}

type tuple7[A, B, C, D, E, F, G any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
	d Codec[D]
	e Codec[E]
	f Codec[F]
	g Codec[G]
}

// Tuple7 returns the codec for T7.
func Tuple7[A, B, C, D, E, F, G any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F], g Codec[G]) Codec[T7[A, B, C, D, E, F, G]] {
	return tuple7[A, B, C, D, E, F, G]{a, b, c, d, e, f, g}
}

func (t tuple7[A, B, C, D, E, F, G]) Decode(src Source, ctx any) (T7[A, B, C, D, E, F, G], Source, error) {
	var v T7[A, B, C, D, E, F, G]
	rest, err := sequence(src, ctx,
		into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2), into(t.d, &v.V3),
		into(t.e, &v.V4), into(t.f, &v.V5), into(t.g, &v.V6))
	if err != nil {
		return T7[A, B, C, D, E, F, G]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple7[A, B, C, D, E, F, G]) Encode(w io.Writer, v T7[A, B, C, D, E, F, G], ctx any) error {
	return emit(w, ctx,
		from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2), from(t.d, v.V3),
		from(t.e, v.V4), from(t.f, v.V5), from(t.g, v.V6))
}

type tuple8[A, B, C, D, E, F, G, H any] struct {
	a Codec[A]
	b Codec[B]
	c Codec[C]
	d Codec[D]
	e Codec[E]
	f Codec[F]
	g Codec[G]
	h Codec[H]
}

// Tuple8 returns the codec for T8.
func Tuple8[A, B, C, D, E, F, G, H any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F], g Codec[G], h Codec[H]) Codec[T8[A, B, C, D, E, F, G, H]] {
	return tuple8[A, B, C, D, E, F, G, H]{a, b, c, d, e, f, g, h}
}

func (t tuple8[A, B, C, D, E, F, G, H]) Decode(src Source, ctx any) (T8[A, B, C, D, E, F, G, H], Source, error) {
	var v T8[A, B, C, D, E, F, G, H]
	rest, err := sequence(src, ctx,
		into(t.a, &v.V0), into(t.b, &v.V1), into(t.c, &v.V2), into(t.d, &v.V3),
		into(t.e, &v.V4), into(t.f, &v.V5), into(t.g, &v.V6), into(t.h, &v.V7))
	if err != nil {
		return T8[A, B, C, D, E, F, G, H]{}, rest, err
	}
	return v, rest, nil
}

func (t tuple8[A, B, C, D, E, F, G, H]) Encode(w io.Writer, v T8[A, B, C, D, E, F, G, H], ctx any) error {
	return emit(w, ctx,
		from(t.a, v.V0), from(t.b, v.V1), from(t.c, v.V2), from(t.d, v.V3),
		from(t.e, v.V4), from(t.f, v.V5), from(t.g, v.V6), from(t.h, v.V7))
}
