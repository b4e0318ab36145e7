package grab

import (
	"errors"
	"fmt"
)

// Domain errors returned by New. Ticks never fail.
var (
	// ErrEmptyCategory indicates the grabbable category name is blank.
	ErrEmptyCategory = errors.New("grab: category name is empty")

	// ErrUnknownCategory indicates the category name does not resolve to a layer.
	ErrUnknownCategory = errors.New("grab: category is not a defined layer")

	// ErrParameterBounds indicates a non-positive pull strength or radius.
	ErrParameterBounds = errors.New("grab: parameter out of valid bounds")

	// ErrMissingDependency indicates a required collaborator was nil.
	ErrMissingDependency = errors.New("grab: missing dependency")
)

// CategoryError names the category that failed to resolve.
type CategoryError struct {
	Category string
	Wrapped  error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%v: you must define a %q layer for the grabber to work", e.Wrapped, e.Category)
}

func (e *CategoryError) Unwrap() error {
	return e.Wrapped
}
