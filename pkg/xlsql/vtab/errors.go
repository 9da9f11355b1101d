package vtab

import (
	"errors"
	"fmt"
)

// ErrMissingConstraint indicates a required parameter with no equality
// predicate.
var ErrMissingConstraint = errors.New("missing required equality constraint")

// ErrUnsupportedOperator indicates a parameter constrained by something other
// than equality.
var ErrUnsupportedOperator = errors.New("only equality constraints are supported")

// ErrUnusableConstraint indicates a parameter whose value is not available to
// the plan being considered.
var ErrUnusableConstraint = errors.New("constraint is not usable")

// PlanningError represents a query shape a table cannot serve.
type PlanningError struct {
	Table  string
	Column string
	Op     Op
	Err    error
}

func (e *PlanningError) Error() string {
	if e.Op != 0 {
		return fmt.Sprintf("plan %s.%s (%s): %v", e.Table, e.Column, e.Op, e.Err)
	}
	return fmt.Sprintf("plan %s.%s: %v", e.Table, e.Column, e.Err)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// NewPlanningError creates a new PlanningError.
func NewPlanningError(table, column string, op Op, err error) *PlanningError {
	return &PlanningError{
		Table:  table,
		Column: column,
		Op:     op,
		Err:    err,
	}
}
