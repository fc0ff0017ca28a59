package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a snapshot of one order, including its current
// location and delivery attempt log.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order snapshot.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the wanted order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryDeliveryAttempt is one entry of the attempt log.
type GetOrderQueryDeliveryAttempt struct {
	AttemptNumber int
	Successful    bool
	FailureReason string
	OccurredAt    time.Time
	NextAttemptAt *time.Time
}

// GetOrderQueryResponse is the order snapshot read model.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	OrderNumber string
	BuyerRef    string
	Status      string
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	CreatedAt   time.Time
	Latitude    *float64
	Longitude   *float64
	Version     int
	Attempts    []GetOrderQueryDeliveryAttempt
}
