// Package codec provides the combinator library: fixed-width numbers in any
// byte order, arrays, tuples, optional and boxed values, greedy and counted
// sequences, and the Source cursor they all decode from.
//
// Every combinator implements Codec[T]:
//
//	Decode(src Source, ctx any) (T, Source, error)
//	Encode(w io.Writer, v T, ctx any) error
//
// Decode returns the unconsumed remainder on success and the position of the
// failure otherwise, so alternatives can be retried from a saved Source.
// The context value is passed through unchanged unless a combinator such as
// WithContext derives a new one.
//
// Combinators compose directly:
//
//	header := codec.Tuple3(codec.U16BE, codec.U8, codec.Option(codec.U32LE))
//	v, rest, err := codec.Decode(header, data, nil)
//
// Decoded byte slices and text-source strings are views into the input and
// must not outlive it.
package codec
