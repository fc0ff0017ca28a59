// Package trackingrepo provides data transfer objects and mapping functions
// for the append-only tracking event store. Events are written once and never
// updated or deleted.
package trackingrepo

import (
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting tracking events.
// The seq column is database-assigned and breaks ties between events created
// at the same instant, keeping the per-order ledger totally ordered.
type EventDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq     int64     `gorm:"->;type:bigserial;uniqueIndex"`

	EventType    int    `gorm:"type:int;not null"`
	Description  string `gorm:"type:text"`
	Actor        string `gorm:"type:varchar(255);not null"`
	InternalOnly bool   `gorm:"not null"`

	Latitude       *float64
	Longitude      *float64
	AccuracyMeters *float64
	Address        string `gorm:"type:text"`
	EvidenceURIs   string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for tracking events.
func (EventDTO) TableName() string {
	return "tracking_events"
}

// fromDomain converts a tracking event to its database representation.
func fromDomain(event *tracking.Event) EventDTO {
	var latitude, longitude, accuracy *float64
	if point := event.Point(); point != nil {
		lat := point.Latitude()
		lng := point.Longitude()
		latitude = &lat
		longitude = &lng
		if acc := point.AccuracyMeters(); acc > 0 {
			accuracy = &acc
		}
	}

	return EventDTO{
		ID:             event.ID().Bytes(),
		OrderID:        event.OrderID().Bytes(),
		EventType:      int(event.Type()),
		Description:    event.Description(),
		Actor:          event.Actor(),
		InternalOnly:   event.InternalOnly(),
		Latitude:       latitude,
		Longitude:      longitude,
		AccuracyMeters: accuracy,
		Address:        event.Address(),
		EvidenceURIs:   strings.Join(event.EvidenceURIs(), "\n"),
		CreatedAt:      event.CreatedAt(),
	}
}

// toDomain converts a database DTO to a tracking event using RestoreEvent.
func toDomain(dto EventDTO) (*tracking.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var point *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		var p kernel.GeoPoint
		if dto.AccuracyMeters != nil {
			p, err = kernel.NewGeoPointWithAccuracy(*dto.Latitude, *dto.Longitude, *dto.AccuracyMeters)
		} else {
			p, err = kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		}
		if err != nil {
			return nil, err
		}
		point = &p
	}

	var evidenceURIs []string
	if dto.EvidenceURIs != "" {
		evidenceURIs = strings.Split(dto.EvidenceURIs, "\n")
	}

	return tracking.RestoreEvent(
		id,
		orderID,
		tracking.EventType(dto.EventType),
		dto.Description,
		dto.Actor,
		dto.InternalOnly,
		point,
		dto.Address,
		evidenceURIs,
		dto.CreatedAt,
	)
}
