package format

import (
	"fmt"
	"reflect"
	"sync"
)

// Kind tags a family of values that share one format rule.
type Kind string

// Built-in kinds. Every Go bool, integer, float and string value maps to
// one of these unless it implements Kinded.
const (
	Bool   Kind = "bool"
	Int    Kind = "int"
	Float  Kind = "float"
	String Kind = "string"
)

// Kinded is implemented by values that report their own kind, e.g. a tag
// type registered as a child of Int.
type Kinded interface {
	Kind() Kind
}

var (
	kindsMu sync.RWMutex
	parents = map[Kind]Kind{
		Bool: Int,
	}
)

// RegisterKind declares kind as a subtype of parent. Lookups for kind that
// find no exact entry fall back to parent and its ancestors. Registering an
// existing kind replaces its parent.
func RegisterKind(kind, parent Kind) error {
	if kind == "" {
		return fmt.Errorf("format: empty kind")
	}

	kindsMu.Lock()
	defer kindsMu.Unlock()

	for p := parent; p != ""; p = parents[p] {
		if p == kind {
			return fmt.Errorf("format: kind %q cannot be its own ancestor", kind)
		}
	}
	parents[kind] = parent
	return nil
}

// MustRegisterKind is RegisterKind for package initialization.
func MustRegisterKind(kind, parent Kind) {
	if err := RegisterKind(kind, parent); err != nil {
		panic(err)
	}
}

// Parent returns the registered supertype of kind, or "" for a root kind.
func Parent(kind Kind) Kind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return parents[kind]
}

// KindOf reports the kind of v. ok is false for values that have no kind
// (nil, structs, slices...).
func KindOf(v any) (Kind, bool) {
	if k, ok := v.(Kinded); ok {
		return k.Kind(), true
	}
	if v == nil {
		return "", false
	}
	return baseKind(reflect.ValueOf(v))
}

func baseKind(rv reflect.Value) (Kind, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int, true
	case reflect.Float32, reflect.Float64:
		return Float, true
	case reflect.String:
		return String, true
	}
	return "", false
}

// root walks kind up to the built-in kind it descends from.
func root(kind Kind) Kind {
	for k := kind; k != ""; k = Parent(k) {
		switch k {
		case Bool, Int, Float, String:
			return k
		}
	}
	return ""
}
