package compiler

import (
	"reflect"

	"github.com/wippyai/bincodec/codec"
	"github.com/wippyai/bincodec/errors"
	"github.com/wippyai/bincodec/schema"
)

// Signature is what a compiled procedure requires from its caller: the
// context type and the source kind. It is resolved once per schema from the
// schema settings and the requirements of the field codecs.
type Signature struct {
	Context reflect.Type
	Source  codec.SourceKind
}

// Requirements converts the signature for codec.Check.
func (s Signature) Requirements() codec.Requirements {
	return codec.Requirements{Context: s.Context, Source: s.Source}
}

// Open reports whether the signature accepts any context and any source.
func (s Signature) Open() bool {
	return s.Context == nil && s.Source == codec.SourceAny
}

func (s Signature) merge(req codec.Requirements, withContext bool, path []string) (Signature, error) {
	if withContext && req.Context != nil {
		switch {
		case s.Context == nil:
			s.Context = req.Context
		case s.Context != req.Context:
			return s, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
				Path(path...).
				GoType(s.Context.String()).
				SchemaType(req.Context.String()).
				Detail("conflicting context types").
				Build()
		}
	}
	if req.Source != codec.SourceAny {
		switch {
		case s.Source == codec.SourceAny:
			s.Source = req.Source
		case s.Source != req.Source:
			return s, errors.InvalidSchema(path, "conflicting source kinds "+s.Source.String()+" and "+req.Source.String())
		}
	}
	return s, nil
}

func requirementsOf(e codec.Erased) codec.Requirements {
	if c, ok := e.(codec.Constrained); ok {
		return c.Requirements()
	}
	return codec.Requirements{}
}

// resolveSignature merges the declared settings with field requirements.
// Only inherit-mode fields see the caller's context, so only they constrain
// its type; every field constrains the source kind.
func resolveSignature(t schema.Type) (Signature, error) {
	st := schema.SettingsOf(t)
	sig := Signature{Context: st.Context, Source: st.Source}

	var err error
	visit := func(fields []schema.Field, path []string) error {
		for _, f := range fields {
			fp := append(append([]string{}, path...), f.Name)
			sig, err = sig.merge(requirementsOf(f.Codec), f.Context == schema.ContextInherit, fp)
			if err != nil {
				return err
			}
		}
		return nil
	}

	switch s := t.(type) {
	case *schema.Struct:
		if err := visit(s.Fields, []string{s.Name}); err != nil {
			return sig, err
		}
	case *schema.Union:
		if s.Discriminant != nil {
			if sig, err = sig.merge(requirementsOf(s.Discriminant), false, []string{s.Name, "discriminant"}); err != nil {
				return sig, err
			}
		}
		for _, v := range s.Variants {
			if err := visit(v.Fields, []string{s.Name, v.Name}); err != nil {
				return sig, err
			}
		}
	}
	return sig, nil
}
