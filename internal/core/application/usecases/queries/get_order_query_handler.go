package queries

import (
	"context"
	"database/sql"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order snapshot from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order snapshot queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the snapshot query.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var response GetOrderQueryResponse
	var id uuid.UUID
	var status int
	var latitude, longitude sql.NullFloat64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			buyer_ref,
			status,
			tax,
			discount,
			created_at,
			latitude,
			longitude,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&response.OrderNumber,
		&response.BuyerRef,
		&status,
		&response.Tax,
		&response.Discount,
		&response.CreatedAt,
		&latitude,
		&longitude,
		&response.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.ID = orderID
	response.Status = order.Status(status).String()
	if latitude.Valid {
		response.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		response.Longitude = &longitude.Float64
	}

	attempts, err := h.loadAttempts(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Attempts = attempts

	return response, nil
}

func (h GetOrderQueryHandler) loadAttempts(
	ctx context.Context,
	orderID kernel.UUID,
) ([]GetOrderQueryDeliveryAttempt, error) {
	attempts := make([]GetOrderQueryDeliveryAttempt, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			attempt_number,
			status,
			failure_reason,
			occurred_at,
			next_attempt_at
		FROM delivery_attempts
		WHERE order_id = ?
		ORDER BY attempt_number
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var attempt GetOrderQueryDeliveryAttempt
		var status int
		var nextAttemptAt sql.NullTime

		err = rows.Scan(
			&attempt.AttemptNumber,
			&status,
			&attempt.FailureReason,
			&attempt.OccurredAt,
			&nextAttemptAt,
		)
		if err != nil {
			return nil, err
		}

		attempt.Successful = order.AttemptStatus(status) == order.AttemptSuccessful
		if nextAttemptAt.Valid {
			t := nextAttemptAt.Time
			attempt.NextAttemptAt = &t
		}
		attempts = append(attempts, attempt)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}
