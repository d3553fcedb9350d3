package layout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type document struct {
	Types []typeDoc `yaml:"types"`
}

// typeDoc declares a struct (fields) or a union (variants).
type typeDoc struct {
	Name         string       `yaml:"name"`
	Source       string       `yaml:"source"`
	Fields       []fieldDoc   `yaml:"fields"`
	Discriminant string       `yaml:"discriminant"`
	Variants     []variantDoc `yaml:"variants"`
}

func (d *typeDoc) isUnion() bool { return d.Variants != nil }

type variantDoc struct {
	Name   string     `yaml:"name"`
	Tag    any        `yaml:"tag"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Context  contextDoc `yaml:"context"`
	AssertEq any        `yaml:"assert_eq"`
	AssertNe any        `yaml:"assert_ne"`
	OneOf    []any      `yaml:"one_of"`
}

// contextDoc accepts "none", "inherit", {field: name} or {value: literal}.
type contextDoc struct {
	Mode  string
	Field string
	Value any
}

func (c *contextDoc) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "none", "inherit":
			c.Mode = n.Value
			return nil
		}
		return fmt.Errorf("line %d: context must be none, inherit or a mapping, got %q", n.Line, n.Value)
	case yaml.MappingNode:
		var m struct {
			Field string `yaml:"field"`
			Value any    `yaml:"value"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		switch {
		case m.Field != "" && m.Value == nil:
			c.Mode, c.Field = "field", m.Field
		case m.Field == "" && m.Value != nil:
			c.Mode, c.Value = "value", m.Value
		default:
			return fmt.Errorf("line %d: context mapping needs exactly one of field or value", n.Line)
		}
		return nil
	}
	return fmt.Errorf("line %d: unexpected context node", n.Line)
}
