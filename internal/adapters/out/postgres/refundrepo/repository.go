package refundrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRefundRepository implements RefundRepository using GORM.
type GormRefundRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRefundRepository creates a new GORM refund repository.
func NewGormRefundRepository(db *gorm.DB, tracker aggregateTracker) *GormRefundRepository {
	return &GormRefundRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new refund to the database.
func (r *GormRefundRepository) Add(ctx context.Context, aggregate *refund.Refund) error {
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

// Update saves an existing refund to the database. The amount, reason, and
// requester are immutable after the request; only lifecycle fields move.
func (r *GormRefundRepository) Update(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RefundDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":      dto.Status,
			"gateway_ref": dto.GatewayRef,
			"approved_at": dto.ApprovedAt,
			"finished_at": dto.FinishedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("refund", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a refund by ID.
func (r *GormRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves the full refund ledger of one order, oldest first.
func (r *GormRefundRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("requested_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllInStatus retrieves all refunds currently in the given status,
// oldest requests first.
func (r *GormRefundRepository) GetAllInStatus(ctx context.Context, status refund.Status) ([]*refund.Refund, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", int(status)).
		Order("requested_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormRefundRepository) toDomainAll(dtos []RefundDTO) ([]*refund.Refund, error) {
	refunds := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		ref, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, ref)
	}
	return refunds, nil
}
