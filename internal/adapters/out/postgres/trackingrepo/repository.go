package trackingrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"

	"gorm.io/gorm"
)

// GormTrackingRepository implements TrackingRepository using GORM.
type GormTrackingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTrackingRepository creates a new GORM tracking event repository.
func NewGormTrackingRepository(db *gorm.DB, tracker aggregateTracker) *GormTrackingRepository {
	return &GormTrackingRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends a new tracking event to the order's ledger.
func (r *GormTrackingRepository) Add(ctx context.Context, event *tracking.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(event.ID(), event)
	return nil
}

// GetByOrder retrieves the event history of one order, newest first. When
// includeInternal is false, internal-only events are filtered out so the
// result is safe for customer-facing views.
func (r *GormTrackingRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
	includeInternal bool,
) ([]*tracking.Event, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes())
	if !includeInternal {
		query = query.Where("internal_only = false")
	}

	var dtos []EventDTO
	if err := query.Order("created_at DESC, seq DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*tracking.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// LatestLocation returns the coordinates of the newest geo-bearing event in
// the order's ledger, or nil when no event carries coordinates.
func (r *GormTrackingRepository) LatestLocation(
	ctx context.Context,
	orderID kernel.UUID,
) (*kernel.GeoPoint, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EventDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", orderID.Bytes()).
		Order("created_at DESC, seq DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var point kernel.GeoPoint
	if dto.AccuracyMeters != nil {
		point, err = kernel.NewGeoPointWithAccuracy(*dto.Latitude, *dto.Longitude, *dto.AccuracyMeters)
	} else {
		point, err = kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}
