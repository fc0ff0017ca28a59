// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and creation time.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	BuyerRef    string    `gorm:"type:varchar(255);not null"`
	Status      int       `gorm:"index"`

	Tax            decimal.Decimal `gorm:"type:numeric(14,2)"`
	Discount       decimal.Decimal `gorm:"type:numeric(14,2)"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(6,4)"`

	CreatedAt           time.Time `gorm:"index"`
	PaidAt              *time.Time
	ProcessingStartedAt *time.Time
	ShippedAt           *time.Time
	InTransitAt         *time.Time
	DeliveredAt         *time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	ReturnedAt          *time.Time
	RefundedAt          *time.Time

	Latitude       *float64
	Longitude      *float64
	AccuracyMeters *float64

	Version int `gorm:"not null"`

	Items    []OrderItemDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Attempts []DeliveryAttemptDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one purchased product line within an order.
// Line items are immutable after order creation.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Quantity  int             `gorm:"type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// DeliveryAttemptDTO represents one courier visit recorded against an order.
// Attempt numbers are strictly increasing per order, starting at 1.
type DeliveryAttemptDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttemptNumber int       `gorm:"type:int;primaryKey"`
	Status        int       `gorm:"type:int;not null"`
	FailureReason string    `gorm:"type:text"`
	EvidenceURIs  string    `gorm:"type:text"`
	OccurredAt    time.Time
	NextAttemptAt *time.Time
}

// TableName specifies the database table name for delivery attempts.
func (DeliveryAttemptDTO) TableName() string {
	return "delivery_attempts"
}

// joinURIs packs evidence links into one text column, one URI per line.
func joinURIs(uris []string) string {
	return strings.Join(uris, "\n")
}

// splitURIs unpacks the evidence text column back into a list.
func splitURIs(packed string) []string {
	if packed == "" {
		return nil
	}
	return strings.Split(packed, "\n")
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps the monetary breakdown, transition timestamps, line items, delivery
// attempts, and the last known location.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	attempts := make([]DeliveryAttemptDTO, 0, len(aggregate.DeliveryAttempts()))
	for _, attempt := range aggregate.DeliveryAttempts() {
		attempts = append(attempts, DeliveryAttemptDTO{
			OrderID:       orderID,
			AttemptNumber: attempt.AttemptNumber(),
			Status:        int(attempt.Status()),
			FailureReason: attempt.FailureReason(),
			EvidenceURIs:  joinURIs(attempt.EvidenceURIs()),
			OccurredAt:    attempt.OccurredAt(),
			NextAttemptAt: attempt.NextAttemptAt(),
		})
	}

	var latitude, longitude, accuracy *float64
	if point := aggregate.CurrentLocation(); point != nil {
		lat := point.Latitude()
		lng := point.Longitude()
		latitude = &lat
		longitude = &lng
		if acc := point.AccuracyMeters(); acc > 0 {
			accuracy = &acc
		}
	}

	timestamps := aggregate.Timestamps()
	return OrderDTO{
		ID:                  orderID,
		OrderNumber:         aggregate.OrderNumber(),
		BuyerRef:            aggregate.BuyerRef(),
		Status:              int(aggregate.Status()),
		Tax:                 aggregate.Tax(),
		Discount:            aggregate.Discount(),
		CommissionRate:      aggregate.CommissionRate(),
		CreatedAt:           aggregate.CreatedAt(),
		PaidAt:              timestamps.PaidAt,
		ProcessingStartedAt: timestamps.ProcessingStartedAt,
		ShippedAt:           timestamps.ShippedAt,
		InTransitAt:         timestamps.InTransitAt,
		DeliveredAt:         timestamps.DeliveredAt,
		CompletedAt:         timestamps.CompletedAt,
		CancelledAt:         timestamps.CancelledAt,
		ReturnedAt:          timestamps.ReturnedAt,
		RefundedAt:          timestamps.RefundedAt,
		Latitude:            latitude,
		Longitude:           longitude,
		AccuracyMeters:      accuracy,
		Version:             aggregate.Version(),
		Items:               items,
		Attempts:            attempts,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including line items, delivery attempts,
// transition timestamps, and location using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDto.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewLineItem(productID, itemDto.Quantity, itemDto.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	attempts := make([]order.DeliveryAttempt, 0, len(dto.Attempts))
	for _, attemptDto := range dto.Attempts {
		attempt, attemptErr := order.RestoreDeliveryAttempt(
			attemptDto.AttemptNumber,
			order.AttemptStatus(attemptDto.Status),
			attemptDto.FailureReason,
			splitURIs(attemptDto.EvidenceURIs),
			attemptDto.OccurredAt,
			attemptDto.NextAttemptAt,
		)
		if attemptErr != nil {
			return nil, attemptErr
		}
		attempts = append(attempts, attempt)
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		var point kernel.GeoPoint
		var pointErr error
		if dto.AccuracyMeters != nil {
			point, pointErr = kernel.NewGeoPointWithAccuracy(*dto.Latitude, *dto.Longitude, *dto.AccuracyMeters)
		} else {
			point, pointErr = kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		}
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		dto.BuyerRef,
		items,
		dto.Tax,
		dto.Discount,
		dto.CommissionRate,
		order.Status(dto.Status),
		dto.CreatedAt,
		order.Timestamps{
			PaidAt:              dto.PaidAt,
			ProcessingStartedAt: dto.ProcessingStartedAt,
			ShippedAt:           dto.ShippedAt,
			InTransitAt:         dto.InTransitAt,
			DeliveredAt:         dto.DeliveredAt,
			CompletedAt:         dto.CompletedAt,
			CancelledAt:         dto.CancelledAt,
			ReturnedAt:          dto.ReturnedAt,
			RefundedAt:          dto.RefundedAt,
		},
		location,
		attempts,
		dto.Version,
	)
}
