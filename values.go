package flagbind

import "strings"

// flagValue is the contract between the registrar and the resolver: every
// registered kingpin value tracks whether the user actually supplied it,
// which keeps "flag not given" distinct from "flag given a falsy value".
type flagValue interface {
	Set(string) error
	String() string
	supplied() bool
}

// scalarValue records a single raw string.
type scalarValue struct {
	raw string
	set bool
}

func (v *scalarValue) Set(s string) error {
	v.raw = s
	v.set = true
	return nil
}

func (v *scalarValue) String() string {
	return v.raw
}

func (v *scalarValue) supplied() bool {
	return v.set
}

// boolValue lets the bare flag form parse: kingpin treats values reporting
// IsBoolFlag as optional-argument flags and passes "true" on bare use and
// "false" for the --no- prefix. Explicit --flag=raw passes raw through for
// keyword matching.
type boolValue struct {
	scalarValue
}

func (v *boolValue) IsBoolFlag() bool {
	return true
}

// listValue accumulates one element per flag occurrence.
type listValue struct {
	items []string
	set   bool
}

func (v *listValue) Set(s string) error {
	v.items = append(v.items, s)
	v.set = true
	return nil
}

func (v *listValue) String() string {
	return strings.Join(v.items, ",")
}

func (v *listValue) supplied() bool {
	return v.set
}

// IsCumulative allows repeated occurrences of the flag.
func (v *listValue) IsCumulative() bool {
	return true
}

// markSupplied records a bare list flag: supplied, zero elements.
func (v *listValue) markSupplied() {
	v.set = true
}
