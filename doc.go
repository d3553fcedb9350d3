// Package bincodec provides composable binary decoders and encoders.
//
// Codecs are values implementing codec.Codec[T]. They are built from
// primitives and combinators, or compiled from declarative schemas, and every
// decoder threads a caller-supplied context value down to its children.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bincodec/            Root package (documentation only)
//	├── codec/           Source cursor, Codec[T], primitives and combinators
//	├── extra/           Length-prefixed buffers and lists, Exhaustive, Never, zstd
//	├── schema/          Struct and union descriptions with context modes and assertions
//	├── compiler/        Schema to procedure compilation and Go type binding
//	├── errors/          Structured error types with phase, kind, path and offset
//	├── wasmmem/         Codecs over WebAssembly linear memory (wazero)
//	├── layout/          YAML layout files compiled to schemas
//	└── cmd/bindump/     Decode files against a layout and print JSON
//
// # Quick Start
//
// Decode a length-prefixed payload:
//
//	type Packet struct {
//	    Len     uint8
//	    Payload []byte
//	}
//
//	c := compiler.NewCompiler()
//	packet, err := compiler.For[Packet](c, &schema.Struct{
//	    Name: "packet",
//	    Fields: []schema.Field{
//	        schema.NewField("len", codec.U8),
//	        schema.NewField("payload", codec.CountedBytes()).Computed(schema.FromField("len")),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, rest, err := codec.Decode(packet, []byte{3, 0xaa, 0xbb, 0xcc, 0xff}, nil)
//	// p.Payload = aa bb cc, rest = ff
//
// # Decoding Model
//
// A decode call receives a codec.Source and returns the value with the
// unconsumed remainder. Sources are immutable, so alternatives are tried by
// keeping the old source. Failures carry the absolute input offset.
//
// Three kinds of decode failure exist: not enough bytes, invalid input and
// assertion failed. Option and Many swallow failures of their element; every
// other combinator propagates them with the element's path prepended.
//
// # Thread Safety
//
// Codecs and compiled procedures hold no mutable state after construction
// and may be used from multiple goroutines.
package bincodec
