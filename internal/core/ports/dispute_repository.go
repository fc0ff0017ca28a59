package ports

import (
	"context"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
)

// DisputeRepository defines the persistence contract for dispute aggregates.
type DisputeRepository interface {
	// Add persists a new dispute aggregate to storage.
	Add(ctx context.Context, aggregate *dispute.Dispute) error

	// Update persists changes to an existing dispute aggregate.
	Update(ctx context.Context, aggregate *dispute.Dispute) error

	// Get retrieves a dispute aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error)

	// GetByOrder retrieves all disputes filed against one order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*dispute.Dispute, error)
}
