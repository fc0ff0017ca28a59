package queries

import (
	"context"
	"database/sql"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRefundsInStatusQueryHandler reads refunds in one lifecycle state from
// the database.
type GetRefundsInStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetRefundsInStatusQueryHandler creates a handler for refund queries.
func NewGetRefundsInStatusQueryHandler(db *gorm.DB) GetRefundsInStatusQueryHandler {
	return GetRefundsInStatusQueryHandler{db: db}
}

// Handle executes the query, oldest requests first.
func (h GetRefundsInStatusQueryHandler) Handle(
	ctx context.Context,
	query GetRefundsInStatusQuery,
) ([]GetRefundsInStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	refunds := make([]GetRefundsInStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			amount,
			reason,
			requested_by,
			gateway_ref,
			requested_at
		FROM refunds
		WHERE status = ?
		ORDER BY requested_at
	`, int(query.Status())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetRefundsInStatusQueryResponse
		var id, orderID uuid.UUID
		var gatewayRef sql.NullString

		err = rows.Scan(
			&id,
			&orderID,
			&response.Amount,
			&response.Reason,
			&response.RequestedBy,
			&gatewayRef,
			&response.RequestedAt,
		)
		if err != nil {
			return nil, err
		}

		refundID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = refundID

		refundOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		response.OrderID = refundOrderID

		if gatewayRef.Valid {
			response.GatewayRef = gatewayRef.String
		}
		refunds = append(refunds, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return refunds, nil
}
