package format

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// fill/align are not supported; such specs degrade to plain output.
var specPattern = regexp.MustCompile(`^([-+ #0]*)(\d*)(?:\.(\d+))?([bdoxXeEfFgGs%]?)$`)

// Value formats v with the format registered for its kind in spec. It never
// fails: values without a kind, kinds without a format and formats that do
// not fit the value all fall back to plain stringification.
func Value(v any, spec Spec) string {
	kind, ok := KindOf(v)
	if !ok {
		return fmt.Sprint(v)
	}
	rv := reflect.ValueOf(v)
	if s, ok := apply(spec.Lookup(kind), rv); ok {
		return s
	}
	return plain(rv)
}

// Values formats each of vs with Value.
func Values(spec Spec, vs ...any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = Value(v, spec)
	}
	return out
}

func plain(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(rv.Interface())
}

func apply(spec string, rv reflect.Value) (string, bool) {
	if spec == "" {
		return "", false
	}
	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return "", false
	}
	// Python's "-" flag is the default sign handling; in Go it means
	// left-justify.
	flags := strings.ReplaceAll(m[1], "-", "")
	width, prec, verb := m[2], m[3], m[4]
	if rv.Kind() == reflect.String && width != "" {
		// Python pads text on the right.
		flags += "-"
	}

	if verb == "" {
		if prec == "" {
			verb = "v"
		} else {
			verb = "g"
		}
	}

	var arg any
	suffix := ""
	switch verb {
	case "d", "b", "o", "x", "X":
		i, ok := integer(rv)
		if !ok {
			return "", false
		}
		arg = i
	case "e", "E", "f", "F", "g", "G", "%":
		f, ok := float(rv)
		if !ok {
			return "", false
		}
		if (verb == "g" || verb == "G") && prec == "" {
			prec = "6"
		}
		if verb == "%" {
			f *= 100
			verb, suffix = "f", "%"
		}
		arg = f
	case "s":
		if rv.Kind() != reflect.String {
			return "", false
		}
		arg = rv.String()
	default:
		arg = rv.Interface()
	}

	goSpec := "%" + flags + width
	if prec != "" {
		goSpec += "." + prec
	}
	return fmt.Sprintf(goSpec+verb, arg) + suffix, true
}

func integer(rv reflect.Value) (any, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return int64(1), true
		}
		return int64(0), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), true
	}
	return nil, false
}

func float(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Bool:
		if rv.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
