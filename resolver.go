package flagbind

import (
	"encoding/csv"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/flagbind/internal/coerce"
	"github.com/eugenenazirov/flagbind/internal/schema"
)

// resolve walks the fields in declaration order and applies the priority
// chain: command line, environment, config file, default, missing. The first
// conversion failure aborts immediately; missing required fields are
// collected across the whole pass and reported together.
func resolve(fields []schema.Field, reg *registrar, src *fileSource, s *settings) ([]reflect.Value, error) {
	resolved := make([]reflect.Value, len(fields))
	var missing []string

	for i, f := range fields {
		fv := reg.values[f.Name]

		// 1. command line
		if fv.supplied() {
			v, err := coerceFlag(f, fv)
			if err != nil {
				return nil, fmt.Errorf("argument --%s: %w", f.FlagName, err)
			}
			s.logger.Debug("field resolved", zap.String("field", f.Name), zap.String("source", "flag"))
			resolved[i] = v
			continue
		}

		// 2. environment; presence counts even for an empty value
		if raw, ok := s.lookupEnv(f.EnvName); ok {
			v, err := coerceEnv(f, raw)
			if err != nil {
				return nil, fmt.Errorf("argument $%s: %w", f.EnvName, err)
			}
			s.logger.Debug("field resolved", zap.String("field", f.Name), zap.String("source", "env"))
			resolved[i] = v
			continue
		}

		// 3. config file
		if src != nil {
			v, found, err := coerceFile(f, src)
			if err != nil {
				return nil, err
			}
			if found {
				s.logger.Debug("field resolved", zap.String("field", f.Name), zap.String("source", "file"))
				resolved[i] = v
				continue
			}
		}

		// 4. defaults: tag value verbatim, else factory invoked now
		if f.HasDefault {
			s.logger.Debug("field resolved", zap.String("field", f.Name), zap.String("source", "default"))
			resolved[i] = f.Default
			continue
		}
		if f.Factory != nil {
			v, err := factoryValue(f)
			if err != nil {
				return nil, err
			}
			s.logger.Debug("field resolved", zap.String("field", f.Name), zap.String("source", "factory"))
			resolved[i] = v
			continue
		}

		// 5. missing; keep going so the report names every missing field
		missing = append(missing, f.Identifier())
	}

	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	return resolved, nil
}

func coerceFlag(f schema.Field, fv flagValue) (reflect.Value, error) {
	if f.Tag.Kind == schema.KindList {
		return coerce.List(f.Tag, fv.(*listValue).items)
	}
	return coerce.Value(f.Tag, fv.String())
}

// coerceEnv converts an environment value; list fields first split the raw
// text as one CSV record.
func coerceEnv(f schema.Field, raw string) (reflect.Value, error) {
	if f.Tag.Kind == schema.KindList {
		items, err := splitCSVRecord(raw)
		if err != nil {
			return reflect.Value{}, errors.New("invalid")
		}
		return coerce.List(f.Tag, items)
	}
	return coerce.Value(f.Tag, raw)
}

// coerceFile converts a config file entry when one exists for the field.
func coerceFile(f schema.Field, src *fileSource) (reflect.Value, bool, error) {
	fv, err := src.lookup(f.Name)
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("config file %s: %w", src.path, err)
	}
	if fv == nil {
		return reflect.Value{}, false, nil
	}

	var v reflect.Value
	switch {
	case f.Tag.Kind == schema.KindList:
		items := fv.items
		if !fv.isSeq {
			if fv.raw != "" {
				items, err = splitCSVRecord(fv.raw)
				if err != nil {
					return reflect.Value{}, false, fmt.Errorf("config file %s: field %s: invalid", src.path, f.Name)
				}
			}
		}
		v, err = coerce.List(f.Tag, items)
	case fv.isSeq:
		err = &ConversionError{Raw: fv.String(), Type: f.Tag.TypeName()}
	default:
		v, err = coerce.Value(f.Tag, fv.raw)
	}
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("config file %s: field %s: %w", src.path, f.Name, err)
	}
	return v, true, nil
}

// factoryValue runs a field's lazy default and checks the result against the
// declared type. A mismatch is a programming error, not a usage error.
func factoryValue(f schema.Field) (reflect.Value, error) {
	out := f.Factory()
	if out == nil {
		switch f.Tag.Kind {
		case schema.KindOptional, schema.KindList:
			return reflect.Zero(f.Tag.Type), nil
		}
		return reflect.Value{}, schema.Errorf("default factory for field %s returned nil, want %s", f.Name, f.Tag.Type)
	}
	v := reflect.ValueOf(out)
	if !v.Type().AssignableTo(f.Tag.Type) {
		return reflect.Value{}, schema.Errorf("default factory for field %s returned %T, want %s", f.Name, out, f.Tag.Type)
	}
	return v, nil
}

// splitCSVRecord parses one comma-separated, quote-aware record.
func splitCSVRecord(raw string) ([]string, error) {
	return csv.NewReader(strings.NewReader(raw)).Read()
}
