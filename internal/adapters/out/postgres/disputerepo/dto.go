// Package disputerepo provides data transfer objects and mapping functions
// for dispute persistence.
package disputerepo

import (
	"time"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DisputeDTO represents the database structure for persisting dispute aggregates.
type DisputeDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Complaint  string    `gorm:"type:text;not null"`
	OpenedBy   string    `gorm:"type:varchar(255);not null"`
	Status     int       `gorm:"index"`
	Resolution string    `gorm:"type:text"`
	OpenedAt   time.Time
	ResolvedAt *time.Time
}

// TableName specifies the database table name for dispute entities.
func (DisputeDTO) TableName() string {
	return "disputes"
}

// fromDomain converts a dispute domain aggregate to its database representation.
func fromDomain(aggregate *dispute.Dispute) DisputeDTO {
	return DisputeDTO{
		ID:         aggregate.ID().Bytes(),
		OrderID:    aggregate.OrderID().Bytes(),
		Complaint:  aggregate.Complaint(),
		OpenedBy:   aggregate.OpenedBy(),
		Status:     int(aggregate.Status()),
		Resolution: aggregate.Resolution(),
		OpenedAt:   aggregate.OpenedAt(),
		ResolvedAt: aggregate.ResolvedAt(),
	}
}

// toDomain converts a database DTO to a dispute domain aggregate using RestoreDispute.
func toDomain(dto DisputeDTO) (*dispute.Dispute, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return dispute.RestoreDispute(
		id,
		orderID,
		dto.Complaint,
		dto.OpenedBy,
		dispute.Status(dto.Status),
		dto.Resolution,
		dto.OpenedAt,
		dto.ResolvedAt,
	)
}
