package flagbind

import (
	"errors"
	"strings"

	"github.com/eugenenazirov/flagbind/internal/coerce"
	"github.com/eugenenazirov/flagbind/internal/schema"
)

// SchemaError reports an invalid configuration schema. It is a programming
// error: Bind returns it and MustBind panics with it, it is never rendered
// as a usage message.
type SchemaError = schema.Error

// ConversionError reports a supplied raw value that could not be converted
// to its field's declared type.
type ConversionError = coerce.ConversionError

// ErrHelp is returned by Bind when the user requested --help. The help text
// has already been written to the configured output; MustBind exits 0.
var ErrHelp = errors.New("help requested")

// MissingFieldsError lists every required field that had no command-line
// value, no environment value, no file value and no default. Fields are
// collected across the whole schema before reporting, in declaration order.
type MissingFieldsError struct {
	// Fields holds one "--flag/$ENVVAR" identifier per missing field.
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "the following arguments are required: " + strings.Join(e.Fields, ", ")
}

// UsageError is the terminal outcome for bad user input. It wraps the
// underlying ConversionError, MissingFieldsError or tokenizer parse error
// and carries the rendered usage synopsis so callers can report without
// re-parsing anything.
type UsageError struct {
	// Prog is the program name for the "<prog>: error: ..." line.
	Prog string
	// Usage is the rendered usage synopsis.
	Usage string
	// Err is the underlying cause.
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
