// Package queries contains read-only operations over the engine's storage.
// Implements the Query side of the CQRS architecture with raw SQL read
// models, bypassing the aggregates entirely.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetTrackingHistoryQueryIsNotConstructed = errors.New(
	"GetTrackingHistoryQuery must be created via NewGetTrackingHistoryQuery constructor",
)

// GetTrackingHistoryQuery retrieves the tracking event history of one order,
// newest first. Internal-only events are filtered at this boundary unless the
// caller asks for them.
type GetTrackingHistoryQuery struct {
	orderID         kernel.UUID
	includeInternal bool

	guard guard.ConstructorGuard
}

// NewGetTrackingHistoryQuery creates a query for one order's history.
func NewGetTrackingHistoryQuery(orderID kernel.UUID, includeInternal bool) (GetTrackingHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingHistoryQuery{}, err
	}
	return GetTrackingHistoryQuery{
		orderID:         orderID,
		includeInternal: includeInternal,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingHistoryQueryIsNotConstructed)
}

// OrderID returns the identifier of the tracked order.
func (q GetTrackingHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// IncludeInternal reports whether internal-only events are wanted.
func (q GetTrackingHistoryQuery) IncludeInternal() bool {
	return q.includeInternal
}

// GetTrackingHistoryQueryResponse is one event of the order's history.
type GetTrackingHistoryQueryResponse struct {
	ID           kernel.UUID
	EventType    string
	Description  string
	Actor        string
	InternalOnly bool
	Latitude     *float64
	Longitude    *float64
	Address      string
	CreatedAt    time.Time
}
