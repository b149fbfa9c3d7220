package analytics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ComputationError reports that one independent result could not be derived
// from its input. Callers log it and degrade that single field.
type ComputationError struct {
	Component string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// IsComputationError reports whether err wraps a ComputationError.
func IsComputationError(err error) bool {
	var ce *ComputationError
	return errors.As(err, &ce)
}

// guard runs fn, converting a returned error or a panic into a ComputationError.
func guard(component string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ComputationError{Component: component, Err: errors.Errorf("panic: %v", r)}
		}
	}()
	if ferr := fn(); ferr != nil {
		return &ComputationError{Component: component, Err: errors.WithStack(ferr)}
	}
	return nil
}

// requireFinite fails when any value is NaN or infinite.
func requireFinite(what string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("%s is not a finite number: %v", what, v)
		}
	}
	return nil
}
