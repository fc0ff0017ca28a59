// Package refundrepo provides data transfer objects and mapping functions
// for the refund ledger.
package refundrepo

import (
	"database/sql"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundDTO represents the database structure for persisting refund aggregates.
// The gateway reference is null until the payment gateway accepts the refund.
type RefundDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reason      string          `gorm:"type:text;not null"`
	RequestedBy string          `gorm:"type:varchar(255);not null"`
	Status      int             `gorm:"index"`
	GatewayRef  sql.NullString  `gorm:"type:varchar(255)"`
	RequestedAt time.Time       `gorm:"index"`
	ApprovedAt  *time.Time
	FinishedAt  *time.Time
}

// TableName specifies the database table name for refund entities.
func (RefundDTO) TableName() string {
	return "refunds"
}

// fromDomain converts a refund domain aggregate to its database representation.
func fromDomain(aggregate *refund.Refund) RefundDTO {
	var gatewayRef sql.NullString
	if ref := aggregate.GatewayRef(); ref != "" {
		gatewayRef = sql.NullString{String: ref, Valid: true}
	}

	return RefundDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		Amount:      aggregate.Amount(),
		Reason:      aggregate.Reason(),
		RequestedBy: aggregate.RequestedBy(),
		Status:      int(aggregate.Status()),
		GatewayRef:  gatewayRef,
		RequestedAt: aggregate.RequestedAt(),
		ApprovedAt:  aggregate.ApprovedAt(),
		FinishedAt:  aggregate.FinishedAt(),
	}
}

// toDomain converts a database DTO to a refund domain aggregate using RestoreRefund.
func toDomain(dto RefundDTO) (*refund.Refund, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var gatewayRef string
	if dto.GatewayRef.Valid {
		gatewayRef = dto.GatewayRef.String
	}

	return refund.RestoreRefund(
		id,
		orderID,
		dto.Amount,
		dto.Reason,
		dto.RequestedBy,
		refund.Status(dto.Status),
		gatewayRef,
		dto.RequestedAt,
		dto.ApprovedAt,
		dto.FinishedAt,
	)
}
