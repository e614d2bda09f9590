package mandel

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDispatch matches every *DispatchError via errors.Is.
	ErrDispatch = errors.New("dispatch failed")

	// ErrNonFinite is returned when a computed grid holds NaN, Inf or a value
	// outside (0, 1]. Such a grid is never handed to the caller.
	ErrNonFinite = errors.New("non-finite or out of range grid value")
)

// ConfigurationError describes an argument rejected before any computation starts.
//
// Field names the offending parameter (detail, maxIterations, workerCount, an axis
// element...), Value holds what was passed and Reason says what was expected.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DispatchError reports a row task that failed on a worker.
// Worker is -1 when the failure happened before the task reached any worker.
type DispatchError struct {
	Row    int
	Worker int
	Err    error
}

func (e *DispatchError) Error() string {
	if e.Worker < 0 {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d on worker %d: %v", e.Row, e.Worker, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatch
}
