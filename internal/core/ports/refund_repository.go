package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
)

// RefundRepository defines the persistence contract for the refund ledger.
type RefundRepository interface {
	// Add persists a new refund aggregate to storage.
	Add(ctx context.Context, aggregate *refund.Refund) error

	// Update persists changes to an existing refund aggregate.
	Update(ctx context.Context, aggregate *refund.Refund) error

	// Get retrieves a refund aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error)

	// GetByOrder retrieves the full refund ledger of one order. The policy
	// check at approval time runs over this list inside the transaction.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error)

	// GetAllInStatus retrieves all refunds currently in the given status.
	// Used by the settlement job to drive approved refunds to the gateway.
	GetAllInStatus(ctx context.Context, status refund.Status) ([]*refund.Refund, error)
}
