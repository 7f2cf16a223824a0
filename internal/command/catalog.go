package command

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/alexiusacademia/opsrun/internal/format"
)

// Formattable is implemented by commands that embed Base.
type Formattable interface {
	Command
	SetFormat(spec format.Spec) format.Spec
}

// materials maps the "type" of a decoded definition to a constructor
// returning the command with its defaults applied.
var materials = map[string]func() Command{
	"Elastic":   func() Command { return &Elastic{} },
	"ElasticPP": func() Command { return &ElasticPP{} },
	"Steel01":   func() Command { return &Steel01{} },
	"Steel02": func() Command {
		return &Steel02{R0: DefaultR0, CR1: DefaultCR1, CR2: DefaultCR2}
	},
	"Hardening": func() Command { return &Hardening{} },
}

// MaterialTypes lists the types Decode understands, sorted.
func MaterialTypes() []string {
	names := make([]string, 0, len(materials)+1)
	for n := range materials {
		names = append(names, n)
	}
	names = append(names, "raw")
	sort.Strings(names)
	return names
}

// Decode builds a material from a generic definition such as one read from
// YAML:
//
//	type: Steel02
//	tag: 1
//	Fy: 415
//	E: 200000
//	b: 0.01
//	format: {float: ".4g"}
//
// Numeric values are coerced to the field types. Unknown keys, unknown
// types and invalid parameter groups are errors wrapping ErrInvalid. The
// "raw" type takes a single "line" of literal text.
func Decode(def map[string]any) (Command, error) {
	typ, _ := def["type"].(string)
	if typ == "" {
		return nil, invalid("decode", "missing type")
	}

	rest := make(map[string]any, len(def))
	for k, v := range def {
		if k != "type" && k != "format" {
			rest[k] = v
		}
	}

	if typ == "raw" {
		line, ok := rest["line"].(string)
		if !ok || len(rest) != 1 {
			return nil, invalid("raw", "expected exactly one string key \"line\"")
		}
		return Raw(line), nil
	}

	newCmd, ok := materials[typ]
	if !ok {
		return nil, invalid("decode", "unknown type %q; must be one of %q", typ, MaterialTypes())
	}
	cmd := newCmd()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       coerceHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cmd,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rest); err != nil {
		return nil, invalid(typ, "%v", err)
	}

	if raw, ok := def["format"]; ok {
		spec, err := decodeSpec(raw)
		if err != nil {
			return nil, invalid(typ, "%v", err)
		}
		if f, ok := cmd.(Formattable); ok {
			f.SetFormat(spec)
		}
	}

	if err := Validate(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// DecodeAll decodes each definition in order.
func DecodeAll(defs []map[string]any) ([]Command, error) {
	cmds := make([]Command, 0, len(defs))
	for i, def := range defs {
		c, err := Decode(def)
		if err != nil {
			return nil, fmt.Errorf("definition %d: %w", i+1, err)
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func decodeSpec(raw any) (format.Spec, error) {
	var m map[string]string
	if err := mapstructure.Decode(raw, &m); err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	spec := make(format.Spec, len(m))
	for k, v := range m {
		spec.Register(format.Kind(k), v)
	}
	return spec, nil
}

func coerceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
		return format.Coerce(data, format.Float), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := format.Coerce(data, format.Int)
		switch f := v.(type) {
		case float64:
			return nil, fmt.Errorf("%v is not an integer", f)
		case float32:
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		return v, nil
	}
	return data, nil
}
