package format

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/spf13/cast"
)

// Coerce converts a numeric-like v to the Go type backing kind to (int64
// for Int descendants, float64 for Float descendants) when that loses
// nothing. Non-numeric input, non-numeric targets and lossy conversions
// return v unchanged so any failure surfaces later, where the value is
// used.
func Coerce(v any, to Kind) any {
	if !numeric(v) {
		return v
	}

	switch root(to) {
	case Float:
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	case Int:
		f, err := cast.ToFloat64E(v)
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return v
		}
		if i, err := cast.ToInt64E(v); err == nil {
			return i
		}
	}
	return v
}

func numeric(v any) bool {
	if _, ok := v.(json.Number); ok {
		return true
	}
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
