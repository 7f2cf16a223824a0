package format

import (
	"fmt"
	"sort"
	"strings"
)

// Spec maps kinds to format strings written in the Python format-spec
// mini-language ("d", "g", ".3g", "#.3g", ".2e", "4d", ...).
type Spec map[Kind]string

// Defaults returns the built-in process-wide formats.
func Defaults() Spec {
	return Spec{
		Bool:   "d",
		Int:    "d",
		Float:  "g",
		String: "",
	}
}

// Register sets the format for kind, replacing any previous entry.
// s must be non-nil.
func (s Spec) Register(kind Kind, format string) {
	s[kind] = format
}

// Clone returns an independent copy of s. The copy of a nil Spec is empty,
// not nil.
func (s Spec) Clone() Spec {
	out := make(Spec, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Update copies every entry of other into s. Kinds absent from other keep
// their current format. s must be non-nil.
func (s Spec) Update(other Spec) {
	for k, v := range other {
		s[k] = v
	}
}

// Merge layers specs left to right; later entries win.
func Merge(specs ...Spec) Spec {
	out := Spec{}
	for _, s := range specs {
		out.Update(s)
	}
	return out
}

// Lookup returns the format for kind: the exact entry if present, else the
// entry of the nearest registered ancestor, else "".
func (s Spec) Lookup(kind Kind) string {
	for k := kind; k != ""; k = Parent(k) {
		if f, ok := s[k]; ok {
			return f
		}
	}
	return ""
}

func (s Spec) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, s[Kind(k)])
	}
	return "Spec(" + strings.Join(parts, ", ") + ")"
}
