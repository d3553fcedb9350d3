// Package layout loads schemas from YAML files.
//
// A layout declares named types. A type with fields is a struct, a type
// with variants is a union:
//
//	types:
//	  - name: packet
//	    fields:
//	      - name: magic
//	        type: fixed<2>
//	        assert_eq: "PK"
//	      - name: count
//	        type: u8
//	      - name: items
//	        type: counted<item>
//	        context: {field: count}
//	  - name: item
//	    discriminant: u8
//	    variants:
//	      - name: int
//	        tag: 1
//	        fields:
//	          - {name: value, type: i32le}
//
// Field types are expressions over the built-in codecs: numbers (u8, i16le,
// u32be, f64, ...), bool, uvarint, varint, rest, text, unit, never, counted,
// fixed<N>, bytes<L>, cow<L>, owned<L>, list<L, T>, array<T, N>, many<T>,
// option<T>, box<T>, counted<T>, exhaustive<T>, zstd<L, T> and the names of
// other types in the layout. L is an unsigned length codec.
//
// Layout types compile without Go types and decode to *compiler.Record and
// *compiler.Variant values.
package layout
