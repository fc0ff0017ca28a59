package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
)

// MaxDeliveryAttempts is the policy cap on delivery attempts per order.
// After the cap no further attempt is scheduled; the order stays in its
// current state for manual intervention.
const MaxDeliveryAttempts = 3

// RedeliveryDelay is how long after a failed attempt the next one is scheduled.
const RedeliveryDelay = 24 * time.Hour

// ErrDeliveryAttemptsExhausted is returned when recording an attempt beyond
// the policy cap.
var ErrDeliveryAttemptsExhausted = errors.New("delivery attempts exhausted")

// AttemptStatus is the outcome of a single delivery attempt.
type AttemptStatus int

const (
	// AttemptUnknown represents an invalid or undefined attempt outcome.
	AttemptUnknown AttemptStatus = iota

	// AttemptSuccessful means the package was handed to the buyer.
	AttemptSuccessful

	// AttemptFailed means the delivery could not be completed.
	AttemptFailed
)

// Validate checks if the attempt status is a defined outcome.
func (s AttemptStatus) Validate() error {
	if s != AttemptSuccessful && s != AttemptFailed {
		return errs.NewValueIsInvalidErrorWithCause("attempt status is invalid",
			fmt.Errorf("%d is not a valid attempt status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s AttemptStatus) String() string {
	switch s {
	case AttemptSuccessful:
		return "Successful"
	case AttemptFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// DeliveryAttempt is a child record of an Order describing one courier visit.
// Attempt numbers are strictly increasing per order, starting at 1.
type DeliveryAttempt struct {
	attemptNumber int
	status        AttemptStatus
	failureReason string
	evidenceURIs  []string
	occurredAt    time.Time

	// nextAttemptAt is set only for failed attempts below the policy cap.
	nextAttemptAt *time.Time
}

// newDeliveryAttempt is called by Order.RecordDeliveryAttempt, which owns the
// numbering and cap policy.
func newDeliveryAttempt(
	attemptNumber int,
	status AttemptStatus,
	failureReason string,
	evidenceURIs []string,
	occurredAt time.Time,
	nextAttemptAt *time.Time,
) DeliveryAttempt {
	return DeliveryAttempt{
		attemptNumber: attemptNumber,
		status:        status,
		failureReason: failureReason,
		evidenceURIs:  append([]string(nil), evidenceURIs...),
		occurredAt:    occurredAt,
		nextAttemptAt: nextAttemptAt,
	}
}

// RestoreDeliveryAttempt reconstructs an attempt from persistence.
func RestoreDeliveryAttempt(
	attemptNumber int,
	status AttemptStatus,
	failureReason string,
	evidenceURIs []string,
	occurredAt time.Time,
	nextAttemptAt *time.Time,
) (DeliveryAttempt, error) {
	if attemptNumber < 1 || attemptNumber > MaxDeliveryAttempts {
		return DeliveryAttempt{}, errs.NewValueIsOutOfRangeError(
			"attempt number", attemptNumber, 1, MaxDeliveryAttempts)
	}
	if err := status.Validate(); err != nil {
		return DeliveryAttempt{}, err
	}
	return newDeliveryAttempt(attemptNumber, status, failureReason, evidenceURIs, occurredAt, nextAttemptAt), nil
}

// AttemptNumber returns the 1-based sequence number of the attempt.
func (a DeliveryAttempt) AttemptNumber() int {
	return a.attemptNumber
}

// Status returns the outcome of the attempt.
func (a DeliveryAttempt) Status() AttemptStatus {
	return a.status
}

// FailureReason returns the courier's reason for a failed attempt.
// Empty for successful attempts.
func (a DeliveryAttempt) FailureReason() string {
	return a.failureReason
}

// EvidenceURIs returns links to proof of the attempt (photos, signatures).
func (a DeliveryAttempt) EvidenceURIs() []string {
	return append([]string(nil), a.evidenceURIs...)
}

// OccurredAt returns when the attempt happened.
func (a DeliveryAttempt) OccurredAt() time.Time {
	return a.occurredAt
}

// NextAttemptAt returns the scheduled time of the next attempt.
// Nil for successful attempts and for failures at the policy cap.
func (a DeliveryAttempt) NextAttemptAt() *time.Time {
	return a.nextAttemptAt
}
