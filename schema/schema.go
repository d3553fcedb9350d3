package schema

import (
	"reflect"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
)

// Type is a compiler input: *Struct or *Union.
type Type interface {
	TypeName() string
	Validate() error
	settings() Settings
}

// Settings are the outer-level options of a schema.
type Settings struct {
	// Context is the context type the procedure expects. Nil leaves it open.
	Context reflect.Type
	// Source restricts the input kind.
	Source codec.SourceKind
}

// SettingsOf returns the outer-level settings of t.
func SettingsOf(t Type) Settings { return t.settings() }

// Struct is an ordered list of fields decoded one after another.
type Struct struct {
	Name     string
	Fields   []Field
	Settings Settings
}

// Union is an ordered list of alternative field lists. With a Discriminant
// codec every variant carries a literal tag; without one variants are tried
// in order and the first full match wins.
type Union struct {
	Name         string
	Variants     []Variant
	Discriminant codec.Erased
	Settings     Settings
}

// Variant is one alternative of a union.
type Variant struct {
	Name         string
	Fields       []Field
	Discriminant any
}

func (s *Struct) TypeName() string   { return s.Name }
func (s *Struct) settings() Settings { return s.Settings }
func (u *Union) TypeName() string    { return u.Name }
func (u *Union) settings() Settings  { return u.Settings }

// Validate checks field and variant declarations.
func (s *Struct) Validate() error {
	return validateFields(s.Fields, []string{s.Name})
}

// Validate checks variant declarations and discriminant consistency.
func (u *Union) Validate() error {
	if len(u.Variants) == 0 {
		return errors.InvalidSchema([]string{u.Name}, "union has no variants")
	}
	seen := make(map[string]bool, len(u.Variants))
	for _, v := range u.Variants {
		path := []string{u.Name, v.Name}
		if v.Name == "" {
			return errors.InvalidSchema([]string{u.Name}, "variant without a name")
		}
		if seen[v.Name] {
			return errors.InvalidSchema(path, "duplicate variant")
		}
		seen[v.Name] = true

		if u.Discriminant == nil && v.Discriminant != nil {
			return errors.InvalidSchema(path, "discriminant value without a discriminant type")
		}
		if u.Discriminant != nil && v.Discriminant == nil {
			return errors.InvalidSchema(path, "variant is missing its discriminant value")
		}
		if err := validateFields(v.Fields, path); err != nil {
			return err
		}
	}
	return nil
}

func validateFields(fields []Field, path []string) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		fp := append(append([]string{}, path...), f.Name)
		if f.Name == "" {
			return errors.InvalidSchema(path, "field without a name")
		}
		if seen[f.Name] {
			return errors.InvalidSchema(fp, "duplicate field")
		}
		seen[f.Name] = true

		if f.Codec == nil {
			return errors.InvalidSchema(fp, "field has no codec")
		}
		switch f.Context {
		case ContextNone, ContextInherit:
			if f.Compute != nil {
				return errors.InvalidSchema(fp, "context function set without computed mode")
			}
		case ContextComputed:
			if f.Compute == nil {
				return errors.InvalidSchema(fp, "computed context without a function")
			}
		default:
			return errors.InvalidSchema(fp, "unknown context mode")
		}
		if f.Matches != nil && f.Matches.Match == nil && f.Matches.Values == nil {
			return errors.InvalidSchema(fp, "empty pattern")
		}
	}
	return nil
}
