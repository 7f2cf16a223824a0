package command

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalid is returned for commands whose parameters can never render to a
// valid solver command.
var ErrInvalid = errors.New("invalid command")

// ValidationError represents a command validation error
type ValidationError struct {
	Command string
	msg     string
}

func invalid(command, format string, args ...any) *ValidationError {
	return &ValidationError{Command: command, msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Command + ": " + e.msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Validator is implemented by commands with co-dependent or enumerated
// parameters.
type Validator interface {
	Validate() error
}

// Validate runs c's own validation, if any, and that of every child of a
// block.
func Validate(c Command) error {
	if v, ok := c.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if b, ok := c.(Block); ok {
		for _, child := range b.Children() {
			if err := Validate(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// oneOf checks value against a fixed table of accepted options.
func oneOf[V any](command, name, value string, table map[string]V) (V, error) {
	v, ok := table[value]
	if !ok {
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var zero V
		return zero, invalid(command, "invalid %s %q; must be one of %q", name, value, keys)
	}
	return v, nil
}
