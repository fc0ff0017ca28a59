package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for every rejected workflow transition.
// Use errors.Is against it; the concrete *InvalidTransitionError carries the
// offending state pair.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// InvalidTransitionError reports an attempted transition that the workflow
// table does not allow. It carries both the current and the requested state so
// callers can explain the rejection.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given state pair.
func NewInvalidTransitionError(current Status, requested Status) *InvalidTransitionError {
	return &InvalidTransitionError{Current: current, Requested: requested}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.Current, e.Requested)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status represents the lifecycle state of an order. It implements the
// workflow state machine as a fixed adjacency table: the main path advances
// one state at a time, cancellation branches off before delivery, and the
// return/refund branch is reachable only after delivery.
//
// State transitions:
//
//	PendingPayment -> Paid -> Processing -> Shipped -> InTransit -> Delivered -> Completed
//	      |            |          |            |           |            |
//	      +------------+----------+------------+-----------+         Returned -> Refunded
//	                       (Cancelled)                      \----------------------^
//
// Completed, Cancelled, and Refunded are terminal: no transition leaves them.
// Status is a value object; transition checks are referentially transparent
// and free of side effects.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingPayment is the initial status of every order.
	PendingPayment

	// Paid indicates payment was confirmed for the order.
	Paid

	// Processing indicates the vendor started preparing the order.
	Processing

	// Shipped indicates the order left the vendor's facility.
	Shipped

	// InTransit indicates the order is moving through the carrier network.
	InTransit

	// Delivered indicates the order reached the buyer.
	Delivered

	// Completed indicates the order was accepted and closed. Terminal.
	Completed

	// Cancelled indicates the order was aborted before delivery. Terminal.
	Cancelled

	// Returned indicates the buyer sent the delivered order back.
	// May still transition to Refunded.
	Returned

	// Refunded indicates the order was fully refunded. Terminal.
	Refunded
)

// getStatusStrings returns string representations for all statuses,
// including Unknown.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		PendingPayment: "PendingPayment",
		Paid:           "Paid",
		Processing:     "Processing",
		Shipped:        "Shipped",
		InTransit:      "InTransit",
		Delivered:      "Delivered",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Returned:       "Returned",
		Refunded:       "Refunded",
	}
}

// getTransitionTable returns the fixed adjacency table of legal transitions.
// Absence of a pair means the transition is rejected. Forward progression
// along the main path never skips states; Cancelled is reachable from every
// state before Delivered; Returned and Refunded branch from Delivered only,
// since Completed admits no transition at all; Returned may still proceed to
// Refunded.
func getTransitionTable() map[Status]map[Status]bool {
	return map[Status]map[Status]bool{
		PendingPayment: {Paid: true, Cancelled: true},
		Paid:           {Processing: true, Cancelled: true},
		Processing:     {Shipped: true, Cancelled: true},
		Shipped:        {InTransit: true, Cancelled: true},
		InTransit:      {Delivered: true, Cancelled: true},
		Delivered:      {Completed: true, Returned: true, Refunded: true},
		Returned:       {Refunded: true},
	}
}

// Validate checks if the Status value is one of the defined workflow states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status. Implements
// fmt.Stringer and is safe on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether the workflow table allows moving from s to
// target. The check is a pure table lookup: same inputs always produce the
// same answer, independent of wall-clock time or any external state.
func (s Status) CanTransitionTo(target Status) bool {
	return getTransitionTable()[s][target]
}

// TransitionTo returns the target status if the transition is legal, or an
// *InvalidTransitionError carrying both states otherwise. Illegal transitions
// are never silently ignored.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}
	return target, nil
}
