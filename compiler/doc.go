// Package compiler turns schemas into decode/encode procedures.
//
// A struct schema compiles to a linear field sequence. Each field runs with
// the context its mode selects (none, inherit, computed from earlier
// siblings), and its assertions are checked as soon as it is decoded.
//
// A union schema compiles to an ordered list of attempts from the same
// position. Without a discriminant the first variant whose fields all decode
// wins. With one, the discriminant is read first and only variants carrying
// an equal tag are attempted; a tagged variant that fails falls through to
// the next variant with the same tag before the union gives up.
//
// Procedures bind to Go types by reflection. Struct fields are matched by
// bin:"name" tag, then case-insensitive name, then kebab-case. Union Go
// types are structs with one pointer field per variant:
//
//	type Message struct {
//		Ping *Ping
//		Data *Data
//	}
//
// Compiling without a Go type produces *Record and *Variant values instead.
//
//	c := compiler.NewCompiler()
//	msg, err := compiler.For[Message](c, messageSchema)
//	v, rest, err := msg.Decode(codec.FromBytes(data), nil)
//
// Compiled procedures are cached per schema and Go type and are safe for
// concurrent use.
package compiler
