package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrErrored is wrapped by every error reporting an Errored run.
	ErrErrored = errors.New("analysis errored")
	// ErrMissingResult is returned when a required result file is absent or
	// empty.
	ErrMissingResult = errors.New("missing result")
	// ErrMalformedResult is returned for result files that are not numeric
	// tables of the expected shape.
	ErrMalformedResult = errors.New("malformed result")
)

// ExitError reports a solver exit code outside the script's contract.
type ExitError struct {
	Code   int
	Killed bool
	Output string
}

func (e *ExitError) Error() string {
	if e.Killed {
		return fmt.Sprintf("analysis ended in an unknown manner: solver killed (exit code %d)", e.Code)
	}
	return fmt.Sprintf("analysis ended in an unknown manner, exit code: %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrErrored
}
