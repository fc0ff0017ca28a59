package services

import (
	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/refund"
)

// RefundPolicy is a domain service guarding the refund ledger of an order.
//
// Business rules:
//   - Only approved, processing and completed refunds consume the cap
//   - The cumulative consumed amount never exceeds the order total
//   - Requested, cancelled and failed refunds release their amount
//
// The policy is evaluated over the full ledger of the order, so callers must
// load every sibling refund inside the same transaction that approves the
// candidate.
type RefundPolicy struct{}

// NewRefundPolicy creates a new RefundPolicy instance.
func NewRefundPolicy() RefundPolicy {
	return RefundPolicy{}
}

// Remaining returns how much of the order total is still refundable given
// the current ledger. The result is never negative.
func (p RefundPolicy) Remaining(o *order.Order, ledger []*refund.Refund) (decimal.Decimal, error) {
	if err := o.Validate(); err != nil {
		return decimal.Zero, err
	}

	consumed := decimal.Zero
	for _, r := range ledger {
		if err := r.Validate(); err != nil {
			return decimal.Zero, err
		}
		if r.Status().CountsTowardCap() {
			consumed = consumed.Add(r.Amount())
		}
	}

	remaining := o.TotalAmount().Sub(consumed)
	if remaining.IsNegative() {
		return decimal.Zero, nil
	}
	return remaining, nil
}

// Authorize checks that approving the candidate refund keeps the cumulative
// consumed amount within the order total. The candidate itself must not be
// part of the ledger. Returns refund.ErrExceedsOrderTotal on violation.
func (p RefundPolicy) Authorize(
	o *order.Order,
	ledger []*refund.Refund,
	candidate *refund.Refund,
) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	remaining, err := p.Remaining(o, ledger)
	if err != nil {
		return err
	}

	if candidate.Amount().GreaterThan(remaining) {
		return refund.ErrExceedsOrderTotal
	}
	return nil
}
