package compiler

import (
	"bytes"
	"math"
	"reflect"

	"github.com/wippyai/bincodec/errors"
)

// convertLiteral turns a schema literal (assertion operand, pattern value or
// discriminant) into a value of the codec's type, so runtime comparison is a
// plain equality check.
func convertLiteral(lit any, t reflect.Type, path []string) (any, error) {
	if lit == nil {
		return nil, errors.InvalidSchema(path, "nil literal")
	}
	rv := reflect.ValueOf(lit)
	if rv.Type() == t {
		return lit, nil
	}
	if t.Kind() == reflect.Interface && rv.Type().Implements(t) {
		return lit, nil
	}

	if isNumber(rv.Kind()) && isNumber(t.Kind()) {
		out := reflect.New(t).Elem()
		switch {
		case isInt(t.Kind()):
			n, ok := asInt64(rv)
			if !ok || out.OverflowInt(n) {
				return nil, errors.Overflow(errors.PhaseCompile, path, lit, t.String())
			}
			out.SetInt(n)
		case isUint(t.Kind()):
			n, ok := asUint64(rv)
			if !ok || out.OverflowUint(n) {
				return nil, errors.Overflow(errors.PhaseCompile, path, lit, t.String())
			}
			out.SetUint(n)
		default:
			f := asFloat64(rv)
			if out.OverflowFloat(f) {
				return nil, errors.Overflow(errors.PhaseCompile, path, lit, t.String())
			}
			out.SetFloat(f)
		}
		return out.Interface(), nil
	}

	if rv.Kind() == reflect.String && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return reflect.ValueOf([]byte(rv.String())).Convert(t).Interface(), nil
	}

	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t).Interface(), nil
	}

	return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
		Path(path...).
		GoType(rv.Type().String()).
		SchemaType(t.String()).
		Value(lit).
		Detail("literal %v not representable", lit).
		Build()
}

// equal compares a decoded value with a converted literal.
func equal(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	ta := reflect.TypeOf(a)
	if ta != nil && ta == reflect.TypeOf(b) && ta.Comparable() && ta.Kind() != reflect.Interface {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func asInt64(v reflect.Value) (int64, bool) {
	switch {
	case isInt(v.Kind()):
		return v.Int(), true
	case isUint(v.Kind()):
		u := v.Uint()
		return int64(u), u <= math.MaxInt64
	default:
		f := v.Float()
		return int64(f), f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
	}
}

func asUint64(v reflect.Value) (uint64, bool) {
	switch {
	case isInt(v.Kind()):
		n := v.Int()
		return uint64(n), n >= 0
	case isUint(v.Kind()):
		return v.Uint(), true
	default:
		f := v.Float()
		return uint64(f), f == math.Trunc(f) && f >= 0 && f < math.MaxUint64
	}
}

func asFloat64(v reflect.Value) float64 {
	switch {
	case isInt(v.Kind()):
		return float64(v.Int())
	case isUint(v.Kind()):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
