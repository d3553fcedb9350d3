package layout

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/compiler"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/schema"
)

// Layout is a set of named schemas loaded from a YAML document.
type Layout struct {
	compiler *compiler.Compiler
	names    []string
	docs     map[string]*typeDoc
	types    map[string]schema.Type

	mu    sync.Mutex
	procs map[string]*compiler.Procedure
}

// Load reads and parses a layout file.
func Load(path string, c *compiler.Compiler) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindIO).Cause(err).Detail("read %s", path).Build()
	}
	return Parse(data, c)
}

// Parse builds the schemas declared in data. A nil compiler uses a fresh
// one.
func Parse(data []byte, c *compiler.Compiler) (*Layout, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidSchema).Cause(err).Detail("parse yaml").Build()
	}
	if c == nil {
		c = compiler.NewCompiler()
	}

	l := &Layout{
		compiler: c,
		docs:     make(map[string]*typeDoc, len(doc.Types)),
		types:    make(map[string]schema.Type, len(doc.Types)),
		procs:    make(map[string]*compiler.Procedure),
	}
	for i := range doc.Types {
		d := &doc.Types[i]
		if d.Name == "" {
			return nil, layoutError(nil, "type #%d has no name", i)
		}
		if _, dup := l.docs[d.Name]; dup {
			return nil, layoutError([]string{d.Name}, "duplicate type")
		}
		if d.Fields != nil && d.Variants != nil {
			return nil, layoutError([]string{d.Name}, "type has both fields and variants")
		}
		l.docs[d.Name] = d
		l.names = append(l.names, d.Name)
	}

	b := &builder{l: l}
	for _, name := range l.names {
		t, err := b.typ(l.docs[name])
		if err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		l.types[name] = t
	}
	return l, nil
}

// Names returns the declared type names in document order.
func (l *Layout) Names() []string { return l.names }

// Schema returns the schema of a declared type.
func (l *Layout) Schema(name string) (schema.Type, bool) {
	t, ok := l.types[name]
	return t, ok
}

// Codec compiles the named type into a dynamic procedure producing
// *compiler.Record or *compiler.Variant values.
func (l *Layout) Codec(name string) (*compiler.Procedure, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.procs[name]; ok {
		return p, nil
	}
	t, ok := l.types[name]
	if !ok {
		return nil, layoutError([]string{name}, "unknown type")
	}
	p, err := l.compiler.Dynamic(t)
	if err != nil {
		return nil, err
	}
	l.procs[name] = p
	return p, nil
}

func layoutError(path []string, format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseLayout, errors.KindInvalidSchema).Path(path...).Detail(format, args...).Build()
}

func (b *builder) typ(d *typeDoc) (schema.Type, error) {
	settings, err := sourceSettings(d)
	if err != nil {
		return nil, err
	}
	if !d.isUnion() {
		if d.Discriminant != "" {
			return nil, layoutError([]string{d.Name}, "discriminant on a struct")
		}
		fields, err := b.fields(d.Fields, []string{d.Name})
		if err != nil {
			return nil, err
		}
		return &schema.Struct{Name: d.Name, Fields: fields, Settings: settings}, nil
	}

	u := &schema.Union{Name: d.Name, Settings: settings}
	if d.Discriminant != "" {
		disc, err := b.expr(d.Discriminant, []string{d.Name, "discriminant"})
		if err != nil {
			return nil, err
		}
		u.Discriminant = disc
	}
	for _, v := range d.Variants {
		path := []string{d.Name, v.Name}
		fields, err := b.fields(v.Fields, path)
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, schema.Variant{Name: v.Name, Fields: fields, Discriminant: v.Tag})
	}
	return u, nil
}

func sourceSettings(d *typeDoc) (schema.Settings, error) {
	switch d.Source {
	case "", "any":
		return schema.Settings{}, nil
	case "bytes":
		return schema.Settings{Source: codec.SourceBytes}, nil
	case "text":
		return schema.Settings{Source: codec.SourceText}, nil
	}
	return schema.Settings{}, layoutError([]string{d.Name}, "unknown source %q", d.Source)
}

func (b *builder) expr(s string, path []string) (codec.Erased, error) {
	e, err := parseExpr(s)
	if err == nil {
		var c codec.Erased
		if c, err = b.build(e); err == nil {
			return c, nil
		}
	}
	return nil, errors.New(errors.PhaseLayout, errors.KindInvalidSchema).Path(path...).Cause(err).Detail("type %q", s).Build()
}

func (b *builder) fields(docs []fieldDoc, path []string) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(docs))
	for _, fd := range docs {
		fpath := append(path[:len(path):len(path)], fd.Name)
		c, err := b.expr(fd.Type, fpath)
		if err != nil {
			return nil, err
		}
		f := schema.ErasedField(fd.Name, c)

		switch fd.Context.Mode {
		case "", "none":
		case "inherit":
			f = f.Inherit()
		case "field":
			f = f.Computed(schema.FromField(fd.Context.Field))
		case "value":
			v := fd.Context.Value
			f = f.Computed(func(schema.Frame, any) any { return v })
		}

		if fd.AssertEq != nil {
			f = f.Eq(fd.AssertEq)
		}
		if fd.AssertNe != nil {
			f = f.Ne(fd.AssertNe)
		}
		if len(fd.OneOf) > 0 {
			f = f.Match(schema.OneOf(fmt.Sprint(fd.OneOf), fd.OneOf...))
		}
		fields = append(fields, f)
	}
	return fields, nil
}
