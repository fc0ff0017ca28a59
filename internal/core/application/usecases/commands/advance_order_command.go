package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrAdvanceOrderCommandIsNotConstructed = errors.New(
		"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// AdvanceOrderCommand represents a request to move an order to the target
// workflow state. Optional notes end up in the status_changed event.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   string
	notes   string

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance an order's workflow.
// The target must be a defined workflow state; whether the transition is
// legal from the order's current state is decided by the aggregate.
func NewAdvanceOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor string,
	notes string,
) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to advance.
func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested workflow state.
func (c AdvanceOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns the principal requesting the transition.
func (c AdvanceOrderCommand) Actor() string {
	return c.actor
}

// Notes returns the optional free-form notes.
func (c AdvanceOrderCommand) Notes() string {
	return c.notes
}

func (c *AdvanceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *AdvanceOrderCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
