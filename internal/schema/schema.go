package schema

import (
	"encoding"
	"reflect"
	"strings"
	"time"
	"unicode"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
)

// Inspect walks the struct type and extracts its ordered Field sequence.
// It returns an Error when the type is not a struct or when any field has a
// shape the binder cannot coerce. Declaration order is preserved so that help
// output and missing-field reports stay deterministic.
func Inspect(t reflect.Type, naming Naming) ([]Field, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, Errorf("config type must be a struct, got %v", t)
	}

	fields := make([]Field, 0, t.NumField())
	seen := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := sf.Tag.Get("flag")
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(sf.Name)
		}
		if sf.Anonymous {
			return nil, Errorf("field %s: embedded fields are not supported", sf.Name)
		}

		tag, err := tagFor(sf.Type, sf.Name)
		if err != nil {
			return nil, err
		}

		f := Field{
			Name:     name,
			FlagName: flagName(name, naming.DashFlags),
			EnvName:  envName(name, naming.EnvPrefix),
			Tag:      tag,
			Index:    sf.Index,
		}
		if raw, ok := sf.Tag.Lookup("default"); ok {
			f.HasDefault = true
			f.DefaultRaw = raw
		}

		if prev, ok := seen[f.FlagName]; ok {
			return nil, Errorf("fields %s and %s both register flag --%s", prev, sf.Name, f.FlagName)
		}
		seen[f.FlagName] = sf.Name

		fields = append(fields, f)
	}
	return fields, nil
}

// tagFor classifies a field type into the closed TypeTag variant set.
// Unsupported shapes (nested structs, maps, nested lists, pointer chains)
// surface as schema errors rather than runtime conversion errors.
func tagFor(t reflect.Type, fieldName string) (TypeTag, error) {
	// TextUnmarshaler types win over structural classification so that
	// slice- and struct-kinded primitives like net.IP and time.Time are not
	// mistaken for lists or nested records.
	if scalar, ok := scalarTag(t); ok {
		return scalar, nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := tagFor(t.Elem(), fieldName)
		if err != nil {
			return TypeTag{}, err
		}
		if inner.Kind == KindOptional || inner.Kind == KindList {
			return TypeTag{}, Errorf("field %s: unsupported optional type %s", fieldName, t)
		}
		return TypeTag{Kind: KindOptional, Type: t, Elem: &inner}, nil
	case reflect.Slice:
		inner, err := tagFor(t.Elem(), fieldName)
		if err != nil {
			return TypeTag{}, err
		}
		if inner.Kind == KindList {
			return TypeTag{}, Errorf("field %s: nested lists are not supported: %s", fieldName, t)
		}
		return TypeTag{Kind: KindList, Type: t, Elem: &inner}, nil
	}
	return TypeTag{}, Errorf("field %s: unsupported type %s", fieldName, t)
}

// scalarTag recognizes the leaf shapes: booleans and string-constructible
// primitives. Types implementing encoding.TextUnmarshaler count as primitives
// even when their kind is a struct (time.Time, net.IP and friends).
func scalarTag(t reflect.Type) (TypeTag, bool) {
	if t.Kind() == reflect.Bool {
		return TypeTag{Kind: KindBool, Type: t}, true
	}
	if t == durationType || reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return TypeTag{Kind: KindPrimitive, Type: t}, true
	}
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeTag{Kind: KindPrimitive, Type: t}, true
	}
	return TypeTag{}, false
}

func flagName(name string, dash bool) string {
	if !dash {
		return name
	}
	return strings.ReplaceAll(name, "_", "-")
}

func envName(name, prefix string) string {
	return prefix + strings.ToUpper(name)
}

// snakeCase converts a Go field name to snake_case, keeping acronym runs
// together: "RateLimitRPS" becomes "rate_limit_rps".
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
