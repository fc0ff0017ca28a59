package queries

import (
	"context"
	"database/sql"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingHistoryQueryHandler reads one order's event history from the
// database, newest first. The result depends only on the stored events, so
// repeated calls without intervening writes return identical sequences.
type GetTrackingHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingHistoryQueryHandler creates a handler for history queries.
func NewGetTrackingHistoryQueryHandler(db *gorm.DB) GetTrackingHistoryQueryHandler {
	return GetTrackingHistoryQueryHandler{db: db}
}

// Handle executes the history query. The ties on created_at break by insert
// order, so events of one transaction keep their transition order.
func (h GetTrackingHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingHistoryQuery,
) ([]GetTrackingHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events := make([]GetTrackingHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			event_type,
			description,
			actor,
			internal_only,
			latitude,
			longitude,
			address,
			created_at
		FROM tracking_events
		WHERE order_id = ?
		  AND (internal_only = false OR ? = true)
		ORDER BY created_at DESC, seq DESC
	`, query.OrderID().Bytes(), query.IncludeInternal()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event GetTrackingHistoryQueryResponse
		var id uuid.UUID
		var eventType int
		var latitude, longitude sql.NullFloat64
		var address sql.NullString

		err = rows.Scan(
			&id,
			&eventType,
			&event.Description,
			&event.Actor,
			&event.InternalOnly,
			&latitude,
			&longitude,
			&address,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		event.ID = eventID
		event.EventType = tracking.EventType(eventType).String()
		if latitude.Valid {
			event.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			event.Longitude = &longitude.Float64
		}
		if address.Valid {
			event.Address = address.String
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
