package planner

import (
	"errors"
	"fmt"
)

// Store-level sentinel errors.
var (
	// ErrDuplicateName is returned when saving a plan under a name the owner already used.
	ErrDuplicateName = errors.New("a diet plan with this name already exists")
	// ErrNotFound is returned when loading a plan name that does not exist for the owner.
	ErrNotFound = errors.New("no diet plan found with that name")
)

// ValidationError reports a generation request that is missing or malformed
// required data. No external call is made when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// GenerationError wraps a failed upstream generation call for a single day.
// The whole multi-day request is aborted when one occurs.
type GenerationError struct {
	Day int
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for day %d: %v", e.Day, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// DecodeError reports model output that could not be parsed as a day plan.
type DecodeError struct {
	Day int
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("day %d response is not a valid day plan: %v", e.Day, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
