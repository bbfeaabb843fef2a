package assemble

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousCondition is returned when a component is tested by a
	// condition but no next edge in the form carries that condition.
	ErrAmbiguousCondition = errors.New("component drives a condition that no next edge uses")

	// ErrNilForm is returned when Assemble is called without a form.
	ErrNilForm = errors.New("no form to assemble")
)

// AmbiguousConditionError reports a component that claims to drive
// branching without a matching next edge.
// It unwraps to ErrAmbiguousCondition.
type AmbiguousConditionError struct {
	// Page is the path of the page holding the component.
	Page string

	// Component is the component's field name.
	Component string

	// Condition is the name of the condition testing the component.
	Condition string
}

// Error implements the error interface.
func (e *AmbiguousConditionError) Error() string {
	return fmt.Sprintf("page %s: component %q is tested by condition %q but no next edge uses it",
		e.Page, e.Component, e.Condition)
}

// Unwrap returns ErrAmbiguousCondition.
func (e *AmbiguousConditionError) Unwrap() error {
	return ErrAmbiguousCondition
}
