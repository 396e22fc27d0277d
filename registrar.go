package flagbind

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/flagbind/internal/schema"
)

// registrar owns the kingpin application for the duration of one Bind call:
// created, populated with one flag per field, consumed by Parse, discarded.
type registrar struct {
	app    *kingpin.Application
	values map[string]flagValue

	// filePath is the extra config-file flag, when FileFlag is configured.
	filePath *scalarValue

	// helpRequested is set through the application's terminate hook, which
	// kingpin invokes after printing help. Termination stays under the
	// caller's control.
	helpRequested bool
}

func newRegistrar(s *settings, fields []schema.Field) (*registrar, error) {
	app := kingpin.New(s.name, s.help)
	app.UsageWriter(s.out)
	app.ErrorWriter(s.out)

	r := &registrar{
		app:    app,
		values: make(map[string]flagValue, len(fields)),
	}
	app.Terminate(func(int) {
		r.helpRequested = true
	})

	if s.fileFlag != "" {
		for _, f := range fields {
			if f.FlagName == s.fileFlag {
				return nil, schema.Errorf("config file flag --%s collides with field %s", s.fileFlag, f.Name)
			}
		}
		r.filePath = &scalarValue{}
		app.Flag(s.fileFlag, "Path to YAML configuration file.").PlaceHolder("PATH").SetValue(r.filePath)
	}

	for _, f := range fields {
		var v flagValue
		switch f.Tag.Kind {
		case schema.KindBool:
			v = &boolValue{}
		case schema.KindList:
			v = &listValue{}
		default:
			v = &scalarValue{}
		}
		r.values[f.Name] = v
		app.Flag(f.FlagName, helpText(f)).SetValue(v)
	}
	return r, nil
}

// helpText renders the per-flag help: declared type, env var name, and the
// default's raw form when one exists.
func helpText(f schema.Field) string {
	help := fmt.Sprintf("type: %s, env: $%s", f.Tag.TypeName(), f.EnvName)
	if f.HasDefault {
		help += fmt.Sprintf(", default: %s", f.DefaultRaw)
	}
	return help
}

// usageError captures the rendered usage synopsis alongside the cause, so
// the reporter never needs the tokenizer again.
func (r *registrar) usageError(s *settings, err error) *UsageError {
	var buf bytes.Buffer
	r.app.UsageWriter(&buf)
	r.app.Usage(nil)
	r.app.UsageWriter(s.out)
	return &UsageError{Prog: s.name, Usage: buf.String(), Err: err}
}
