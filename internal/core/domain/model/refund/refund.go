// Package refund provides the Refund aggregate. A refund moves money back to
// the buyer for one order; several partial refunds may exist against the same
// order as long as their cumulative amount never exceeds the order total. The
// cap itself is enforced by the RefundPolicy domain service, not here, because
// it needs the sibling refunds of the order.
package refund

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrRefundIsNotConstructed is returned when a Refund was not created
	// via NewRefund or RestoreRefund.
	ErrRefundIsNotConstructed = errors.New("Refund must be created via NewRefund or RestoreRefund")

	// ErrAmountIsNotPositive is returned for a zero or negative refund amount.
	ErrAmountIsNotPositive = errors.New("refund amount must be positive")

	// ErrExceedsOrderTotal is returned when approving a refund would push the
	// cumulative refunded amount of the order past its total.
	ErrExceedsOrderTotal = errors.New("refund exceeds the order total")
)

// Refund is a request to return money for one order. It references the order
// by identifier and never owns it.
type Refund struct {
	id          kernel.UUID
	orderID     kernel.UUID
	amount      decimal.Decimal
	reason      string
	requestedBy string
	status      Status
	gatewayRef  string
	requestedAt time.Time
	approvedAt  *time.Time
	finishedAt  *time.Time

	guard guard.ConstructorGuard
}

// NewRefund opens a refund request for a positive amount.
func NewRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount decimal.Decimal,
	reason string,
	requestedBy string,
	now time.Time,
) (*Refund, error) {
	r := &Refund{
		status:      Requested,
		requestedAt: now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setAmount(amount),
		r.setReason(reason),
		r.setRequestedBy(requestedBy),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRefund reconstructs a refund from persistence.
func RestoreRefund(
	id kernel.UUID,
	orderID kernel.UUID,
	amount decimal.Decimal,
	reason string,
	requestedBy string,
	status Status,
	gatewayRef string,
	requestedAt time.Time,
	approvedAt *time.Time,
	finishedAt *time.Time,
) (*Refund, error) {
	r, err := NewRefund(id, orderID, amount, reason, requestedBy, requestedAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	r.status = status
	r.gatewayRef = gatewayRef
	r.approvedAt = approvedAt
	r.finishedAt = finishedAt
	return r, nil
}

// Validate ensures the refund was created through a constructor.
func (r *Refund) Validate() error {
	if r == nil {
		return ErrRefundIsNotConstructed
	}
	return r.guard.Validate(ErrRefundIsNotConstructed)
}

// ID returns the refund's unique identifier.
func (r *Refund) ID() kernel.UUID {
	return r.id
}

// OrderID returns the identifier of the refunded order.
func (r *Refund) OrderID() kernel.UUID {
	return r.orderID
}

// Amount returns the amount to return to the buyer.
func (r *Refund) Amount() decimal.Decimal {
	return r.amount
}

// Reason returns the stated reason for the refund.
func (r *Refund) Reason() string {
	return r.reason
}

// RequestedBy returns the principal who requested the refund.
func (r *Refund) RequestedBy() string {
	return r.requestedBy
}

// Status returns the refund lifecycle state.
func (r *Refund) Status() Status {
	return r.status
}

// GatewayRef returns the payment gateway reference, empty until processing
// starts.
func (r *Refund) GatewayRef() string {
	return r.gatewayRef
}

// RequestedAt returns when the refund was requested.
func (r *Refund) RequestedAt() time.Time {
	return r.requestedAt
}

// ApprovedAt returns when the refund was approved, nil before that.
func (r *Refund) ApprovedAt() *time.Time {
	return r.approvedAt
}

// FinishedAt returns when the refund reached a terminal state, nil before
// that.
func (r *Refund) FinishedAt() *time.Time {
	return r.finishedAt
}

// AdvanceTo moves the refund along its machine, stamping the approval time
// on Approved and the finish time on any terminal state. Each stamp is set
// once.
func (r *Refund) AdvanceTo(target Status, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}

	newStatus, err := r.status.TransitionTo(target)
	if err != nil {
		return err
	}

	switch newStatus {
	case Approved:
		if r.approvedAt == nil {
			t := now
			r.approvedAt = &t
		}
	case Completed, Failed, Cancelled:
		if r.finishedAt == nil {
			t := now
			r.finishedAt = &t
		}
	}

	r.status = newStatus
	return nil
}

// AttachGatewayRef records the payment gateway reference. The reference is
// immutable once set.
func (r *Refund) AttachGatewayRef(ref string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(ref) == "" {
		return errs.NewValueIsRequiredError("gateway ref")
	}
	if r.gatewayRef != "" {
		return errs.NewValueIsInvalidError("gateway ref is already set")
	}
	r.gatewayRef = ref
	return nil
}

func (r *Refund) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Refund) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	r.orderID = orderID
	return nil
}

func (r *Refund) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountIsNotPositive
	}
	r.amount = amount
	return nil
}

func (r *Refund) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	r.reason = reason
	return nil
}

func (r *Refund) setRequestedBy(requestedBy string) error {
	if requestedBy == "" {
		return errs.NewValueIsRequiredError("requested by")
	}
	r.requestedBy = requestedBy
	return nil
}
