package compiler

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/schema"
)

// Config holds compiler options.
type Config struct {
	// Logger receives compile events and rejected union variants at debug
	// level. Nil uses the package logger.
	Logger *zap.Logger
}

// DefaultConfig returns the default compiler configuration.
func DefaultConfig() Config {
	return Config{}
}

// Compiler turns schemas into procedures and caches them per
// (schema, Go type) pair. It is safe for concurrent use.
type Compiler struct {
	log   *zap.Logger
	cache sync.Map // cacheKey -> *Procedure
}

type cacheKey struct {
	schema schema.Type
	goType reflect.Type
}

// NewCompiler creates a compiler with the default configuration.
func NewCompiler() *Compiler {
	return New(DefaultConfig())
}

// New creates a compiler.
func New(cfg Config) *Compiler {
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	return &Compiler{log: log.Named("compiler")}
}

// Compile builds the procedure for t. goType is the Go type decoded values
// take: a struct for a struct schema, a struct of variant pointers for a
// union schema. A nil goType, *Record or *Variant selects dynamic values.
// Pointer types are dereferenced; Bind and For hand out pointer views for *T.
func (c *Compiler) Compile(t schema.Type, goType reflect.Type) (*Procedure, error) {
	if t == nil || reflect.ValueOf(t).IsNil() {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("schema cannot be nil").
			Build()
	}

	if goType == recordPtrType || goType == variantPtrType {
		goType = nil
	}
	if goType != nil && goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}

	key := cacheKey{schema: t, goType: goType}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*Procedure), nil
	}

	p, err := c.compile(t, goType)
	if err != nil {
		return nil, err
	}

	actual, loaded := c.cache.LoadOrStore(key, p)
	if !loaded {
		c.log.Debug("compiled schema",
			zap.String("schema", t.TypeName()),
			zap.Stringer("type", p.Type()),
			zap.Stringer("source", p.sig.Source),
		)
	}
	return actual.(*Procedure), nil
}

func (c *Compiler) compile(t schema.Type, goType reflect.Type) (*Procedure, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	sig, err := resolveSignature(t)
	if err != nil {
		return nil, err
	}

	p := &Procedure{name: t.TypeName(), sig: sig, log: c.log}
	switch s := t.(type) {
	case *schema.Struct:
		plan, err := c.compileFields(s.Name, s.Fields, goType, []string{s.Name})
		if err != nil {
			return nil, err
		}
		p.fields = plan
		p.goType = goType
		if goType == nil {
			p.goType = recordPtrType
		}
	case *schema.Union:
		plan, err := c.compileUnion(s, goType)
		if err != nil {
			return nil, err
		}
		p.union = plan
		p.goType = goType
		if goType == nil {
			p.goType = variantPtrType
		}
	default:
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Detail("unsupported schema type: %T", t).
			Build()
	}
	return p, nil
}

func (c *Compiler) compileFields(name string, fields []schema.Field, goType reflect.Type, path []string) (*fieldsPlan, error) {
	if goType != nil && goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, goType.String(), "struct")
	}

	plan := &fieldsPlan{
		schemaName: name,
		fields:     make([]fieldPlan, 0, len(fields)),
		names:      make([]string, 0, len(fields)),
		goType:     goType,
	}

	for _, sf := range fields {
		fieldPath := append(append([]string{}, path...), sf.Name)
		ct := sf.Codec.Type()

		fp := fieldPlan{
			name:    sf.Name,
			codec:   sf.Codec,
			mode:    sf.Context,
			compute: sf.Compute,
		}

		if sf.AssertEq != nil {
			lit, err := convertLiteral(sf.AssertEq, ct, fieldPath)
			if err != nil {
				return nil, err
			}
			fp.eq, fp.hasEq = lit, true
		}
		if sf.AssertNe != nil {
			lit, err := convertLiteral(sf.AssertNe, ct, fieldPath)
			if err != nil {
				return nil, err
			}
			fp.ne, fp.hasNe = lit, true
		}
		if sf.Matches != nil {
			match, err := compilePattern(sf.Matches, ct, fieldPath)
			if err != nil {
				return nil, err
			}
			fp.match, fp.matchName = match, sf.Matches.Name
		}

		if goType != nil {
			goField, found := findGoField(goType, sf.Name)
			if !found {
				return nil, errors.FieldMissing(errors.PhaseCompile, path, sf.Name)
			}
			conv, ok := bindable(ct, goField.Type)
			if !ok {
				return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
					Path(fieldPath...).
					GoType(goField.Type.String()).
					SchemaType(ct.String()).
					Detail("codec value not assignable to field %s", goField.Name).
					Build()
			}
			fp.index = goField.Index
			fp.goType = goField.Type
			fp.conv = conv
		}

		plan.fields = append(plan.fields, fp)
		plan.names = append(plan.names, sf.Name)
	}
	return plan, nil
}

func compilePattern(p *schema.Pattern, ct reflect.Type, path []string) (func(any) bool, error) {
	if p.Values == nil {
		return p.Match, nil
	}
	values := make([]any, len(p.Values))
	for i, v := range p.Values {
		lit, err := convertLiteral(v, ct, path)
		if err != nil {
			return nil, err
		}
		values[i] = lit
	}
	custom := p.Match
	return func(v any) bool {
		if custom != nil && !custom(v) {
			return false
		}
		for _, lit := range values {
			if equal(v, lit) {
				return true
			}
		}
		return false
	}, nil
}

func (c *Compiler) compileUnion(u *schema.Union, goType reflect.Type) (*unionPlan, error) {
	if goType != nil && goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompile, []string{u.Name}, goType.String(), "struct of variant pointers")
	}

	plan := &unionPlan{
		name:         u.Name,
		discriminant: u.Discriminant,
		goType:       goType,
		variants:     make([]variantPlan, 0, len(u.Variants)),
	}

	for _, v := range u.Variants {
		path := []string{u.Name, v.Name}
		vp := variantPlan{name: v.Name}

		if u.Discriminant != nil {
			tag, err := convertLiteral(v.Discriminant, u.Discriminant.Type(), path)
			if err != nil {
				return nil, err
			}
			vp.tag = tag
		}

		var elem reflect.Type
		if goType != nil {
			goField, found := findGoField(goType, v.Name)
			if !found {
				return nil, errors.FieldMissing(errors.PhaseCompile, []string{u.Name}, v.Name)
			}
			if goField.Type.Kind() != reflect.Pointer || goField.Type.Elem().Kind() != reflect.Struct {
				return nil, errors.TypeMismatch(errors.PhaseCompile, path, goField.Type.String(), "pointer to struct")
			}
			vp.index = goField.Index
			elem = goField.Type.Elem()
		}

		fields, err := c.compileFields(v.Name, v.Fields, elem, path)
		if err != nil {
			return nil, err
		}
		vp.fields = fields
		plan.variants = append(plan.variants, vp)
	}
	return plan, nil
}

// findGoField matches by: 1) bin:"name" tag, 2) case-insensitive, 3) kebab-to-camel.
func findGoField(goType reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() {
			continue
		}

		if tag := field.Tag.Get("bin"); tag != "" {
			if tag == "-" {
				continue
			}
			if tag == name {
				return field, true
			}
		}

		if strings.EqualFold(field.Name, name) {
			return field, true
		}

		if toKebabCase(field.Name) == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
