// Package flagbind binds a configuration struct to values gathered from
// command-line flags, environment variables, an optional YAML file, and
// field defaults, with precedence: CLI flags > Environment variables >
// Config file > Defaults.
//
// Each exported field becomes one --flag (snake_case name, underscores
// dashed) and one env var (upper-cased name, optional prefix). Values are
// coerced to the field's declared type; booleans match the fixed keyword
// sets y/yes/t/true/on/1 and n/no/f/false/off/0, pointer fields accept
// blank, "none" or "null" for nil, and slice fields take repeated flag
// occurrences or a CSV-encoded env value. Fields without a default that
// receive no value are reported together in a single usage error.
package flagbind

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/eugenenazirov/flagbind/internal/coerce"
	"github.com/eugenenazirov/flagbind/internal/schema"
)

// osExit is patchable so tests can observe termination without dying.
var osExit = os.Exit

// Bind populates cfg, which must be a non-nil pointer to a struct. It never
// prints and never terminates: user-input problems come back as *UsageError,
// --help as ErrHelp, and schema problems as *SchemaError. cfg is written
// only on full success.
func Bind(cfg any, opts ...Option) error {
	return bind(cfg, newSettings(opts))
}

// MustBind is the terminal entry point around Bind. On a usage error it
// prints the usage synopsis and a "<prog>: error: <message>" line to the
// configured output and exits with status 1; on --help it exits 0. A schema
// error is a programming mistake and panics.
func MustBind(cfg any, opts ...Option) {
	s := newSettings(opts)
	err := bind(cfg, s)
	if err == nil {
		return
	}
	if errors.Is(err, ErrHelp) {
		osExit(0)
		return
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		fmt.Fprint(s.out, uerr.Usage)
		fmt.Fprintf(s.out, "%s: error: %v\n", uerr.Prog, uerr.Err)
		osExit(1)
		return
	}
	panic(err)
}

func bind(cfg any, s *settings) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return schema.Errorf("config must be a non-nil struct pointer, got %T", cfg)
	}
	target := rv.Elem()

	fields, err := schema.Inspect(target.Type(), schema.Naming{
		EnvPrefix: s.envPrefix,
		DashFlags: s.dashFlags,
	})
	if err != nil {
		return err
	}
	if err := attachDefaults(fields, s); err != nil {
		return err
	}

	reg, err := newRegistrar(s, fields)
	if err != nil {
		return err
	}

	args := s.args
	if !s.argsSet {
		args = os.Args[1:]
	}
	norm, bareLists := normalizeArgs(args, fields)

	if _, err := reg.app.Parse(norm); err != nil {
		if reg.helpRequested {
			return ErrHelp
		}
		return reg.usageError(s, err)
	}
	if reg.helpRequested {
		return ErrHelp
	}

	// A bare list flag means "supplied, zero elements".
	for _, f := range fields {
		if bareLists[f.FlagName] {
			reg.values[f.Name].(*listValue).markSupplied()
		}
	}

	src, err := openFileSource(s, reg)
	if err != nil {
		return reg.usageError(s, err)
	}

	resolved, err := resolve(fields, reg, src, s)
	if err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) {
			return err
		}
		return reg.usageError(s, err)
	}

	for i, f := range fields {
		target.FieldByIndex(f.Index).Set(resolved[i])
	}
	return nil
}

// attachDefaults coerces `default` tags once, at schema time, and wires the
// factories registered through the Default option. A default tag that does
// not parse as its field's type is a schema error, not a usage error.
func attachDefaults(fields []schema.Field, s *settings) error {
	byName := make(map[string]*schema.Field, len(fields))
	for i := range fields {
		byName[fields[i].Name] = &fields[i]
	}

	for name, factory := range s.factories {
		f, ok := byName[name]
		if !ok {
			return schema.Errorf("default factory references unknown field %q", name)
		}
		f.Factory = factory
	}

	for i := range fields {
		f := &fields[i]
		if !f.HasDefault {
			continue
		}
		var v reflect.Value
		var err error
		if f.Tag.Kind == schema.KindList {
			var items []string
			if f.DefaultRaw != "" {
				items, err = splitCSVRecord(f.DefaultRaw)
				if err != nil {
					return schema.Errorf("field %s: bad default %q: %v", f.Name, f.DefaultRaw, err)
				}
			}
			v, err = coerce.List(f.Tag, items)
		} else {
			v, err = coerce.Value(f.Tag, f.DefaultRaw)
		}
		if err != nil {
			return schema.Errorf("field %s: bad default %q: %v", f.Name, f.DefaultRaw, err)
		}
		f.Default = v
	}
	return nil
}

func openFileSource(s *settings, reg *registrar) (*fileSource, error) {
	path := s.filePath
	if reg.filePath != nil && reg.filePath.supplied() {
		path = reg.filePath.raw
	}
	if path == "" {
		return nil, nil
	}
	return loadFileSource(path)
}
