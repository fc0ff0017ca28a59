package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"
)

// TrackingRepository defines the persistence contract for the append-only
// tracking event store. Events are never updated or deleted.
type TrackingRepository interface {
	// Add appends a new tracking event.
	Add(ctx context.Context, event *tracking.Event) error

	// GetByOrder retrieves the event history of one order, newest first.
	// When includeInternal is false, internal-only events are filtered out.
	GetByOrder(ctx context.Context, orderID kernel.UUID, includeInternal bool) ([]*tracking.Event, error)

	// LatestLocation derives the order's position from the ledger: the
	// coordinates of the most recent geo-bearing event, or nil when no
	// event carries coordinates yet.
	LatestLocation(ctx context.Context, orderID kernel.UUID) (*kernel.GeoPoint, error)
}
