package schema

import "reflect"

// Kind enumerates the closed set of field shapes the binder understands.
type Kind int

const (
	KindInvalid Kind = iota
	// KindPrimitive covers strings, integers, floats, time.Duration and any
	// type implementing encoding.TextUnmarshaler.
	KindPrimitive
	// KindBool is parsed against the fixed true/false keyword sets.
	KindBool
	// KindOptional is a pointer type; blank and "none"/"null" inputs yield nil.
	KindOptional
	// KindList is a slice of primitives, booleans or optionals.
	KindList
)

// String returns a short human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindBool:
		return "bool"
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// TypeTag describes the shape of a field's declared type. It is constructed
// once per Inspect call and never re-derived during resolution.
type TypeTag struct {
	Kind Kind
	// Type is the concrete Go type the tag describes.
	Type reflect.Type
	// Elem is the inner tag for KindOptional and KindList.
	Elem *TypeTag
}

// TypeName renders the tag the way it appears in help and error messages,
// e.g. "int", "time.Duration", "list of string".
func (t TypeTag) TypeName() string {
	if t.Kind == KindList {
		return "list of " + t.Elem.TypeName()
	}
	return t.Type.String()
}

// Field is one named, typed member of a configuration schema, in struct
// declaration order. Fields are read-only after extraction.
type Field struct {
	// Name is the canonical snake_case field name.
	Name string
	// FlagName is the command-line flag name (dashes applied when enabled).
	FlagName string
	// EnvName is the environment variable name, prefix included.
	EnvName string
	// Tag is the field's type shape.
	Tag TypeTag
	// Index locates the field within the struct for reflect access.
	Index []int

	// HasDefault reports whether a `default` struct tag was present.
	// DefaultRaw holds its raw text; Default holds the coerced value, filled
	// in by the binder after inspection.
	HasDefault bool
	DefaultRaw string
	Default    reflect.Value

	// Factory is a lazy default, attached by the binder from options. It is
	// consulted only when no default tag exists.
	Factory func() any
}

// Identifier renders the combined flag/env identifier used in missing-field
// reports, e.g. "--port/$PORT".
func (f Field) Identifier() string {
	return "--" + f.FlagName + "/$" + f.EnvName
}

// Naming controls how flag and env var names are derived from field names.
type Naming struct {
	// EnvPrefix is prepended to the upper-cased field name.
	EnvPrefix string
	// DashFlags replaces underscores with dashes in flag names.
	DashFlags bool
}
