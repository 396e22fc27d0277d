package schema

import "fmt"

// Error reports an invalid configuration schema: the target is not a struct
// pointer, a field has an unsupported shape, flag names collide, or a default
// tag cannot be parsed. It indicates a programming error, never bad user
// input, and must not be rendered as a usage message.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

// Errorf builds a schema Error with fmt.Sprintf semantics.
func Errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}
