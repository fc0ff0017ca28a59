package tracking

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrEventIsNotConstructed is returned when an Event was not created via
// NewEvent or RestoreEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// SystemActor is the actor recorded on events the engine emits on its own,
// as opposed to events attributed to a named principal.
const SystemActor = "system"

// EventType classifies what happened to an order.
type EventType int

const (
	// EventUnknown represents an invalid or undefined event type.
	EventUnknown EventType = iota

	// EventOrderCreated marks the birth of the order.
	EventOrderCreated

	// EventStatusChanged records a workflow transition.
	EventStatusChanged

	// EventLocationPing records a position report from the carrier.
	EventLocationPing

	// EventDeliveryAttempted records the outcome of a courier visit.
	EventDeliveryAttempted

	// EventRedeliveryScheduled records that a failed attempt queued a retry.
	EventRedeliveryScheduled

	// EventRefundInitiated records that a refund was signalled to the
	// payment gateway.
	EventRefundInitiated

	// EventNote is a free-form annotation by an operator.
	EventNote
)

// getEventTypeStrings returns string representations for all event types.
func getEventTypeStrings() map[EventType]string {
	return map[EventType]string{
		EventUnknown:             "unknown",
		EventOrderCreated:        "order_created",
		EventStatusChanged:       "status_changed",
		EventLocationPing:        "location_ping",
		EventDeliveryAttempted:   "delivery_attempted",
		EventRedeliveryScheduled: "redelivery_scheduled",
		EventRefundInitiated:     "refund_initiated",
		EventNote:                "note",
	}
}

// Validate checks if the event type is defined.
func (t EventType) Validate() error {
	if _, ok := getEventTypeStrings()[t]; !ok || t == EventUnknown {
		return errs.NewValueIsInvalidErrorWithCause("event type is invalid",
			fmt.Errorf("%d is not a valid event type", t))
	}
	return nil
}

// String implements fmt.Stringer.
func (t EventType) String() string {
	if str, ok := getEventTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Event is one immutable entry in an order's append-only tracking ledger.
// Once appended, an event is never mutated or removed. Events for a given
// order are totally ordered by creation time; the order's "current location"
// is the latest event carrying geo data.
//
// Internal-only events are stored alongside customer-visible ones; filtering
// happens at the query boundary, so the same data serves both the
// customer-facing and the admin-facing views.
type Event struct {
	id        kernel.UUID
	orderID   kernel.UUID
	eventType EventType

	// point and address are optional geo enrichment. The address is a
	// best-effort reverse geocode; raw coordinates remain authoritative.
	point   *kernel.GeoPoint
	address string

	description  string
	evidenceURIs []string
	actor        string
	internalOnly bool
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// NewEvent creates a tracking event for an order. Actor must be non-empty
// (use SystemActor for engine-emitted events). The geo point, address,
// and evidence are optional.
func NewEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	eventType EventType,
	description string,
	actor string,
	internalOnly bool,
	createdAt time.Time,
) (*Event, error) {
	e := &Event{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setEventType(eventType),
		e.setActor(actor),
	); err != nil {
		return nil, err
	}

	e.description = description
	e.internalOnly = internalOnly
	return e, nil
}

// RestoreEvent reconstructs an event from persistence.
func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	eventType EventType,
	description string,
	actor string,
	internalOnly bool,
	point *kernel.GeoPoint,
	address string,
	evidenceURIs []string,
	createdAt time.Time,
) (*Event, error) {
	e, err := NewEvent(id, orderID, eventType, description, actor, internalOnly, createdAt)
	if err != nil {
		return nil, err
	}
	if point != nil {
		if err = e.AttachPoint(*point, address); err != nil {
			return nil, err
		}
	}
	e.evidenceURIs = append([]string(nil), evidenceURIs...)
	return e, nil
}

// Validate ensures the event was created through a constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// AttachPoint adds geo coordinates and an optional reverse-geocoded address.
// Intended for use between construction and first persistence; a persisted
// event is immutable.
func (e *Event) AttachPoint(point kernel.GeoPoint, address string) error {
	if err := point.Validate(); err != nil {
		return err
	}
	e.point = &point
	e.address = address
	return nil
}

// AttachEvidence adds evidence URIs (photos, signatures) to the event.
// Intended for use between construction and first persistence.
func (e *Event) AttachEvidence(uris ...string) {
	e.evidenceURIs = append(e.evidenceURIs, uris...)
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the order the event belongs to.
func (e *Event) OrderID() kernel.UUID {
	return e.orderID
}

// Type returns the event classification.
func (e *Event) Type() EventType {
	return e.eventType
}

// Point returns the geo coordinates, or nil if the event carries none.
func (e *Event) Point() *kernel.GeoPoint {
	return e.point
}

// Address returns the reverse-geocoded address, empty if unavailable.
func (e *Event) Address() string {
	return e.address
}

// Description returns the human-readable description of the event.
func (e *Event) Description() string {
	return e.description
}

// EvidenceURIs returns links to supporting evidence.
func (e *Event) EvidenceURIs() []string {
	return append([]string(nil), e.evidenceURIs...)
}

// Actor returns who caused the event: SystemActor or a named principal.
func (e *Event) Actor() string {
	return e.actor
}

// InternalOnly reports whether the event is hidden from customer-facing views.
func (e *Event) InternalOnly() bool {
	return e.internalOnly
}

// CreatedAt returns the append instant.
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Event) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Event) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *Event) setEventType(eventType EventType) error {
	if err := eventType.Validate(); err != nil {
		return err
	}
	e.eventType = eventType
	return nil
}

func (e *Event) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	e.actor = actor
	return nil
}
