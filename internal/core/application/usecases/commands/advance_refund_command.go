package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/pkg/guard"
)

var ErrAdvanceRefundCommandIsNotConstructed = errors.New(
	"AdvanceRefundCommand must be created via NewAdvanceRefundCommand constructor",
)

// AdvanceRefundCommand represents a request to move a refund along its
// machine.
type AdvanceRefundCommand struct { //nolint:recvcheck //using for validation
	refundID kernel.UUID
	target   refund.Status
	actor    string

	guard guard.ConstructorGuard
}

// NewAdvanceRefundCommand creates a command to advance a refund.
func NewAdvanceRefundCommand(
	refundID kernel.UUID,
	target refund.Status,
	actor string,
) (AdvanceRefundCommand, error) {
	cmd := AdvanceRefundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRefundID(refundID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return AdvanceRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceRefundCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceRefundCommandIsNotConstructed)
}

// RefundID returns the identifier of the refund to advance.
func (c AdvanceRefundCommand) RefundID() kernel.UUID {
	return c.refundID
}

// Target returns the requested refund state.
func (c AdvanceRefundCommand) Target() refund.Status {
	return c.target
}

// Actor returns the principal requesting the transition.
func (c AdvanceRefundCommand) Actor() string {
	return c.actor
}

func (c *AdvanceRefundCommand) setRefundID(refundID kernel.UUID) error {
	if err := refundID.Validate(); err != nil {
		return err
	}

	c.refundID = refundID
	return nil
}

func (c *AdvanceRefundCommand) setTarget(target refund.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *AdvanceRefundCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
