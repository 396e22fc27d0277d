// Package coerce converts raw strings into typed values according to a
// schema TypeTag. Conversion is pure: the same tag and raw input always
// produce the same value or the same ConversionError.
package coerce

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/eugenenazirov/flagbind/internal/schema"
)

// Boolean keyword sets, case-insensitive, fixed and non-configurable.
var (
	trueWords  = map[string]bool{"y": true, "yes": true, "t": true, "true": true, "on": true, "1": true}
	falseWords = map[string]bool{"n": true, "no": true, "f": true, "false": true, "off": true, "0": true}
)

// ConversionError reports a raw value that could not be converted to its
// field's declared type.
type ConversionError struct {
	// Raw is the offending input as supplied.
	Raw string
	// Type is the human-readable target type name.
	Type string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid %s value: '%s'", e.Type, e.Raw)
}

var durationType = reflect.TypeOf(time.Duration(0))

// Value converts one raw string against a scalar tag (primitive, bool or
// optional). List tags must go through List instead.
func Value(tag schema.TypeTag, raw string) (reflect.Value, error) {
	switch tag.Kind {
	case schema.KindOptional:
		return optionalValue(tag, raw)
	case schema.KindBool:
		b, ok := boolWord(raw)
		if !ok {
			return reflect.Value{}, &ConversionError{Raw: raw, Type: tag.TypeName()}
		}
		return reflect.ValueOf(b).Convert(tag.Type), nil
	case schema.KindPrimitive:
		return primitiveValue(tag, raw)
	case schema.KindList:
		return reflect.Value{}, schema.Errorf("list values require element-wise coercion")
	default:
		return reflect.Value{}, schema.Errorf("cannot coerce into %s", tag.TypeName())
	}
}

// List converts a sequence of raw item strings against a list tag. The whole
// list fails on the first failing element. An empty item slice yields an
// empty, non-nil slice.
func List(tag schema.TypeTag, items []string) (reflect.Value, error) {
	if tag.Kind != schema.KindList {
		return reflect.Value{}, schema.Errorf("cannot coerce items into %s", tag.TypeName())
	}
	out := reflect.MakeSlice(tag.Type, 0, len(items))
	for _, item := range items {
		v, err := Value(*tag.Elem, item)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

// optionalValue maps blank input and the null keywords to a typed nil
// pointer; anything else is coerced against the inner tag and boxed.
func optionalValue(tag schema.TypeTag, raw string) (reflect.Value, error) {
	if isNullWord(raw) {
		return reflect.Zero(tag.Type), nil
	}
	inner, err := Value(*tag.Elem, raw)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(tag.Elem.Type)
	p.Elem().Set(inner)
	return p, nil
}

func isNullWord(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	switch strings.ToLower(raw) {
	case "none", "null":
		return true
	}
	return false
}

func boolWord(raw string) (value, ok bool) {
	w := strings.ToLower(raw)
	if trueWords[w] {
		return true, true
	}
	if falseWords[w] {
		return false, true
	}
	return false, false
}

func primitiveValue(tag schema.TypeTag, raw string) (reflect.Value, error) {
	t := tag.Type
	fail := func() (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{Raw: raw, Type: tag.TypeName()}
	}

	if t == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fail()
		}
		return reflect.ValueOf(d), nil
	}
	if u, ok := textUnmarshaler(t); ok {
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return fail()
		}
		return reflect.ValueOf(u).Elem(), nil
	}

	// Numeric parsing tolerates surrounding whitespace so CSV-encoded lists
	// like "10, 20, 30" convert cleanly; strings keep their spacing.
	num := strings.TrimSpace(raw)

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(num, 10, t.Bits())
		if err != nil {
			return fail()
		}
		v := reflect.New(t).Elem()
		v.SetInt(n)
		return v, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(num, 10, t.Bits())
		if err != nil {
			return fail()
		}
		v := reflect.New(t).Elem()
		v.SetUint(n)
		return v, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(num, t.Bits())
		if err != nil {
			return fail()
		}
		v := reflect.New(t).Elem()
		v.SetFloat(f)
		return v, nil
	}
	return reflect.Value{}, schema.Errorf("cannot coerce into %s", tag.TypeName())
}

func textUnmarshaler(t reflect.Type) (encoding.TextUnmarshaler, bool) {
	u, ok := reflect.New(t).Interface().(encoding.TextUnmarshaler)
	return u, ok
}
