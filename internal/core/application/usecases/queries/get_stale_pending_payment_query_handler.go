package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStalePendingPaymentQueryHandler reads identifiers of orders stuck in
// PendingPayment beyond the cutoff.
type GetStalePendingPaymentQueryHandler struct {
	db *gorm.DB
}

// NewGetStalePendingPaymentQueryHandler creates a handler for stale unpaid
// order queries.
func NewGetStalePendingPaymentQueryHandler(db *gorm.DB) GetStalePendingPaymentQueryHandler {
	return GetStalePendingPaymentQueryHandler{db: db}
}

// Handle executes the query. Results are sorted oldest first so the timeout
// job cancels the longest-waiting orders before the rest.
func (h GetStalePendingPaymentQueryHandler) Handle(
	ctx context.Context,
	query GetStalePendingPaymentQuery,
) ([]GetStalePendingPaymentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetStalePendingPaymentQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			created_at
		FROM orders
		WHERE status = ?
		  AND created_at <= ?
		ORDER BY created_at
	`, int(order.PendingPayment), query.Cutoff()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetStalePendingPaymentQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &response.CreatedAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = orderID
		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
