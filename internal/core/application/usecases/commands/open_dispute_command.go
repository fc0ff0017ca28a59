package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrOpenDisputeCommandIsNotConstructed = errors.New(
	"OpenDisputeCommand must be created via NewOpenDisputeCommand constructor",
)

// OpenDisputeCommand represents a buyer filing a complaint against an order.
type OpenDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID kernel.UUID
	orderID   kernel.UUID
	complaint string
	actor     string

	guard guard.ConstructorGuard
}

// NewOpenDisputeCommand creates a command to file a dispute.
func NewOpenDisputeCommand(
	disputeID kernel.UUID,
	orderID kernel.UUID,
	complaint string,
	actor string,
) (OpenDisputeCommand, error) {
	cmd := OpenDisputeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDisputeID(disputeID),
		cmd.setOrderID(orderID),
		cmd.setComplaint(complaint),
		cmd.setActor(actor),
	); err != nil {
		return OpenDisputeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OpenDisputeCommand) Validate() error {
	return c.guard.Validate(ErrOpenDisputeCommandIsNotConstructed)
}

// DisputeID returns the unique identifier for the new dispute.
func (c OpenDisputeCommand) DisputeID() kernel.UUID {
	return c.disputeID
}

// OrderID returns the identifier of the disputed order.
func (c OpenDisputeCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Complaint returns the complaint text.
func (c OpenDisputeCommand) Complaint() string {
	return c.complaint
}

// Actor returns the principal filing the dispute.
func (c OpenDisputeCommand) Actor() string {
	return c.actor
}

func (c *OpenDisputeCommand) setDisputeID(disputeID kernel.UUID) error {
	if err := disputeID.Validate(); err != nil {
		return err
	}

	c.disputeID = disputeID
	return nil
}

func (c *OpenDisputeCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OpenDisputeCommand) setComplaint(complaint string) error {
	if complaint == "" {
		return dispute.ErrComplaintIsRequired
	}

	c.complaint = complaint
	return nil
}

func (c *OpenDisputeCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
