package disputerepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDisputeRepository implements DisputeRepository using GORM.
type GormDisputeRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDisputeRepository creates a new GORM dispute repository.
func NewGormDisputeRepository(db *gorm.DB, tracker aggregateTracker) *GormDisputeRepository {
	return &GormDisputeRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new dispute to the database.
func (r *GormDisputeRepository) Add(ctx context.Context, aggregate *dispute.Dispute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing dispute to the database.
func (r *GormDisputeRepository) Update(ctx context.Context, aggregate *dispute.Dispute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DisputeDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":      dto.Status,
			"resolution":  dto.Resolution,
			"resolved_at": dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("dispute", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a dispute by ID.
func (r *GormDisputeRepository) Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DisputeDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dispute", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves all disputes filed against one order, oldest first.
func (r *GormDisputeRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*dispute.Dispute, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DisputeDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("opened_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	disputes := make([]*dispute.Dispute, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}

	return disputes, nil
}
