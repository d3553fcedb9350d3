// Package schema describes the shapes the compiler turns into codecs.
//
// A Struct is an ordered field list. A Union is an ordered variant list,
// optionally dispatched on a discriminant. Each Field names a codec and may
// declare how it gets its context and what its decoded value must satisfy:
//
//	packet := &schema.Struct{
//		Name: "packet",
//		Fields: []schema.Field{
//			schema.NewField("magic", codec.U16BE).Eq(uint16(0xCAFE)),
//			schema.NewField("len", codec.U8),
//			schema.NewField("payload", codec.CountedBytes()).Computed(schema.FromField("len")),
//		},
//	}
//
// Schemas are plain values built once and handed to package compiler.
package schema
