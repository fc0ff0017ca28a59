package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetStalePendingPaymentQueryIsNotConstructed = errors.New(
	"GetStalePendingPaymentQuery must be created via NewGetStalePendingPaymentQuery constructor",
)

// GetStalePendingPaymentQuery retrieves orders still awaiting payment that
// were created at or before the cutoff. Feeds the payment timeout job.
type GetStalePendingPaymentQuery struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewGetStalePendingPaymentQuery creates a query for stale unpaid orders.
func NewGetStalePendingPaymentQuery(cutoff time.Time) (GetStalePendingPaymentQuery, error) {
	if cutoff.IsZero() {
		return GetStalePendingPaymentQuery{}, errs.NewValueIsRequiredError("cutoff")
	}
	return GetStalePendingPaymentQuery{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStalePendingPaymentQuery) Validate() error {
	return q.guard.Validate(ErrGetStalePendingPaymentQueryIsNotConstructed)
}

// Cutoff returns the creation-time threshold.
func (q GetStalePendingPaymentQuery) Cutoff() time.Time {
	return q.cutoff
}

// GetStalePendingPaymentQueryResponse identifies one stale unpaid order.
type GetStalePendingPaymentQueryResponse struct {
	ID        kernel.UUID
	CreatedAt time.Time
}
