package dispute

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for rejected dispute transitions.
var ErrInvalidTransition = errors.New("invalid dispute transition")

// InvalidTransitionError carries the current and requested dispute states.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.Current, e.Requested)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status is the lifecycle state of a dispute. Unlike the order workflow,
// the dispute machine allows a bounce: an escalated dispute returns to
// Investigating once the escalation is handled.
//
// State transitions:
//
//	Open -> Investigating -> Resolved -> Closed
//	            ^   |
//	            |   v
//	          Escalated
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Open is the initial status of a filed dispute.
	Open

	// Investigating means an operator is working the complaint.
	Investigating

	// Escalated means the dispute went up a support tier.
	// Bounces back to Investigating.
	Escalated

	// Resolved means a resolution was reached.
	Resolved

	// Closed is the terminal status.
	Closed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "Unknown",
		Open:          "Open",
		Investigating: "Investigating",
		Escalated:     "Escalated",
		Resolved:      "Resolved",
		Closed:        "Closed",
	}
}

func getTransitionTable() map[Status]map[Status]bool {
	return map[Status]map[Status]bool{
		Open:          {Investigating: true},
		Investigating: {Resolved: true, Escalated: true},
		Escalated:     {Investigating: true},
		Resolved:      {Closed: true},
	}
}

// Validate checks if the Status is a defined dispute state.
func (s Status) Validate() error {
	if s < Open || s > Closed {
		return errs.NewValueIsInvalidErrorWithCause("dispute status is invalid",
			fmt.Errorf("%d is not a valid dispute status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanTransitionTo reports whether the dispute machine allows moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	return getTransitionTable()[s][target]
}

// TransitionTo returns the target status or an *InvalidTransitionError.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, &InvalidTransitionError{Current: s, Requested: target}
	}
	return target, nil
}
