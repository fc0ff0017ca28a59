package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetLatestLocationQueryIsNotConstructed = errors.New(
	"GetLatestLocationQuery must be created via NewGetLatestLocationQuery constructor",
)

// GetLatestLocationQuery retrieves the last known position of one order,
// derived from the newest geo-bearing event in its tracking ledger.
type GetLatestLocationQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetLatestLocationQuery creates a query for one order's latest position.
func NewGetLatestLocationQuery(orderID kernel.UUID) (GetLatestLocationQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetLatestLocationQuery{}, err
	}
	return GetLatestLocationQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLatestLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetLatestLocationQueryIsNotConstructed)
}

// OrderID returns the identifier of the tracked order.
func (q GetLatestLocationQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetLatestLocationQueryResponse is the order's last reported position. A nil
// response means the ledger holds no geo-bearing event yet.
type GetLatestLocationQueryResponse struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
}
