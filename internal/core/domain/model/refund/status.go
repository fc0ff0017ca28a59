package refund

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for rejected refund transitions.
var ErrInvalidTransition = errors.New("invalid refund transition")

// InvalidTransitionError carries the current and requested refund states.
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

// Status is the lifecycle state of a refund, independent of the order
// workflow.
//
// State transitions:
//
//	Requested -> Approved -> Processing -> Completed
//	    |            |           |
//	    +--Cancelled-+           +-> Failed
//
// A refund already processing cannot be cancelled.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Requested is the initial status of a refund.
	Requested

	// Approved means the refund passed the cumulative-amount check.
	Approved

	// Processing means the payment gateway is moving the money.
	Processing

	// Completed is the terminal success status.
	Completed

	// Failed is the terminal status for a gateway failure.
	Failed

	// Cancelled is the terminal status for a withdrawn refund.
	// Reachable only from Requested or Approved.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Requested:  "Requested",
		Approved:   "Approved",
		Processing: "Processing",
		Completed:  "Completed",
		Failed:     "Failed",
		Cancelled:  "Cancelled",
	}
}

func getTransitionTable() map[Status]map[Status]bool {
	return map[Status]map[Status]bool{
		Requested:  {Approved: true, Cancelled: true},
		Approved:   {Processing: true, Cancelled: true},
		Processing: {Completed: true, Failed: true},
	}
}

// Validate checks if the Status is a defined refund state.
func (s Status) Validate() error {
	if s < Requested || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("refund status is invalid",
			fmt.Errorf("%d is not a valid refund status", s))
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

// CountsTowardCap reports whether a refund in this status consumes part of
// the order's refundable total. Requested amounts do not count until
// approved; cancelled and failed refunds release their amount.
func (s Status) CountsTowardCap() bool {
	return s == Approved || s == Processing || s == Completed
}

// CanTransitionTo reports whether the refund machine allows moving to target.
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
