package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/pkg/guard"
)

var ErrGetRefundsInStatusQueryIsNotConstructed = errors.New(
	"GetRefundsInStatusQuery must be created via NewGetRefundsInStatusQuery constructor",
)

// GetRefundsInStatusQuery retrieves all refunds currently in one lifecycle
// state. Feeds the refund settlement job.
type GetRefundsInStatusQuery struct {
	status refund.Status

	guard guard.ConstructorGuard
}

// NewGetRefundsInStatusQuery creates a query for refunds in one state.
func NewGetRefundsInStatusQuery(status refund.Status) (GetRefundsInStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetRefundsInStatusQuery{}, err
	}
	return GetRefundsInStatusQuery{
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRefundsInStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetRefundsInStatusQueryIsNotConstructed)
}

// Status returns the wanted refund state.
func (q GetRefundsInStatusQuery) Status() refund.Status {
	return q.status
}

// GetRefundsInStatusQueryResponse is one refund read model.
type GetRefundsInStatusQueryResponse struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	Amount      decimal.Decimal
	Reason      string
	RequestedBy string
	GatewayRef  string
	RequestedAt time.Time
}
