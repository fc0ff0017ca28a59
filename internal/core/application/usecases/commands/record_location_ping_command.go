package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrRecordLocationPingCommandIsNotConstructed = errors.New(
	"RecordLocationPingCommand must be created via NewRecordLocationPingCommand constructor",
)

// RecordLocationPingCommand represents a carrier position report for one
// order in transit.
type RecordLocationPingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	point   kernel.GeoPoint
	actor   string

	guard guard.ConstructorGuard
}

// NewRecordLocationPingCommand creates a command to record a position report.
func NewRecordLocationPingCommand(
	orderID kernel.UUID,
	point kernel.GeoPoint,
	actor string,
) (RecordLocationPingCommand, error) {
	cmd := RecordLocationPingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPoint(point),
		cmd.setActor(actor),
	); err != nil {
		return RecordLocationPingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordLocationPingCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationPingCommandIsNotConstructed)
}

// OrderID returns the identifier of the tracked order.
func (c RecordLocationPingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Point returns the reported position.
func (c RecordLocationPingCommand) Point() kernel.GeoPoint {
	return c.point
}

// Actor returns the carrier reporting the position.
func (c RecordLocationPingCommand) Actor() string {
	return c.actor
}

func (c *RecordLocationPingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordLocationPingCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}

func (c *RecordLocationPingCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
