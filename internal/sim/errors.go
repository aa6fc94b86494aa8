package sim

import (
	"errors"
	"fmt"
)

// SimulationError represents a fatal construction-time error reported by
// Builder.Build. Evaluation itself has no error returns: missing data
// degrades to false leaves and unsatisfied statutes resolve to Void,
// which are normal outcomes.
type SimulationError struct {
	// Code identifies the error category.
	Code SimulationErrorCode

	// Message is a human-readable description.
	Message string
}

// SimulationErrorCode categorizes construction-time errors.
type SimulationErrorCode string

const (
	// ErrCodeNoStatutes indicates the statute catalog is empty.
	ErrCodeNoStatutes SimulationErrorCode = "NO_STATUTES"

	// ErrCodeEmptyPopulation indicates no entities were supplied.
	ErrCodeEmptyPopulation SimulationErrorCode = "EMPTY_POPULATION"

	// ErrCodeConditionTooDeep indicates a precondition tree exceeds
	// law.MaxConditionDepth.
	ErrCodeConditionTooDeep SimulationErrorCode = "CONDITION_TOO_DEEP"
)

// Error implements the error interface.
func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoStatutes returns true if the error is an empty-catalog error.
// Uses errors.As to handle wrapped errors.
func IsNoStatutes(err error) bool {
	var se *SimulationError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNoStatutes
	}
	return false
}

// IsEmptyPopulation returns true if the error is an empty-population error.
// Uses errors.As to handle wrapped errors.
func IsEmptyPopulation(err error) bool {
	var se *SimulationError
	if errors.As(err, &se) {
		return se.Code == ErrCodeEmptyPopulation
	}
	return false
}

// NewNoStatutesError creates the empty-catalog validation error.
func NewNoStatutesError() *SimulationError {
	return &SimulationError{
		Code:    ErrCodeNoStatutes,
		Message: "statute catalog is empty",
	}
}

// NewEmptyPopulationError creates the empty-population validation error.
func NewEmptyPopulationError() *SimulationError {
	return &SimulationError{
		Code:    ErrCodeEmptyPopulation,
		Message: "population has no entities",
	}
}

// NewConditionTooDeepError creates the precondition-depth validation error.
func NewConditionTooDeepError(statuteID string, depth, limit int) *SimulationError {
	return &SimulationError{
		Code:    ErrCodeConditionTooDeep,
		Message: fmt.Sprintf("statute %s precondition depth %d exceeds limit %d", statuteID, depth, limit),
	}
}
