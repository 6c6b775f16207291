package interview

import (
	"errors"
	"fmt"
)

// ErrMediaUnavailable means no camera or microphone capture could be obtained.
var ErrMediaUnavailable = errors.New("media capture unavailable")

// ValidationError is user input the engine refused. State is unchanged.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// InvalidStateError is a transition invoked outside the state it is valid in.
type InvalidStateError struct {
	Op     string
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.Status)
}

func validation(msg string) error {
	return &ValidationError{Message: msg}
}

func invalidState(op string, s Status) error {
	return &InvalidStateError{Op: op, Status: s}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsInvalidState(err error) bool {
	var s *InvalidStateError
	return errors.As(err, &s)
}
