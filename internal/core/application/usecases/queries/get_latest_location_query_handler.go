package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GetLatestLocationQueryHandler derives one order's position from its
// tracking ledger: the newest event carrying coordinates wins.
type GetLatestLocationQueryHandler struct {
	db *gorm.DB
}

// NewGetLatestLocationQueryHandler creates a handler for latest-position queries.
func NewGetLatestLocationQueryHandler(db *gorm.DB) GetLatestLocationQueryHandler {
	return GetLatestLocationQueryHandler{db: db}
}

// Handle executes the query. A nil response with a nil error means the order
// has no geo-bearing event yet.
func (h GetLatestLocationQueryHandler) Handle(
	ctx context.Context,
	query GetLatestLocationQuery,
) (*GetLatestLocationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var response GetLatestLocationQueryResponse
	var accuracy sql.NullFloat64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			latitude,
			longitude,
			accuracy_meters
		FROM tracking_events
		WHERE order_id = ?
		  AND latitude IS NOT NULL
		  AND longitude IS NOT NULL
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&response.Latitude, &response.Longitude, &accuracy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if accuracy.Valid {
		response.AccuracyMeters = &accuracy.Float64
	}
	return &response, nil
}
