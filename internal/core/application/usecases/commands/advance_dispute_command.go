package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAdvanceDisputeCommandIsNotConstructed = errors.New(
	"AdvanceDisputeCommand must be created via NewAdvanceDisputeCommand constructor",
)

// AdvanceDisputeCommand represents a request to move a dispute along its
// machine. The resolution text is consumed only when entering Resolved.
type AdvanceDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID  kernel.UUID
	target     dispute.Status
	resolution string
	actor      string

	guard guard.ConstructorGuard
}

// NewAdvanceDisputeCommand creates a command to advance a dispute.
func NewAdvanceDisputeCommand(
	disputeID kernel.UUID,
	target dispute.Status,
	resolution string,
	actor string,
) (AdvanceDisputeCommand, error) {
	cmd := AdvanceDisputeCommand{
		resolution: resolution,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDisputeID(disputeID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return AdvanceDisputeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDisputeCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDisputeCommandIsNotConstructed)
}

// DisputeID returns the identifier of the dispute to advance.
func (c AdvanceDisputeCommand) DisputeID() kernel.UUID {
	return c.disputeID
}

// Target returns the requested dispute state.
func (c AdvanceDisputeCommand) Target() dispute.Status {
	return c.target
}

// Resolution returns the resolution text, used when entering Resolved.
func (c AdvanceDisputeCommand) Resolution() string {
	return c.resolution
}

// Actor returns the operator working the dispute.
func (c AdvanceDisputeCommand) Actor() string {
	return c.actor
}

func (c *AdvanceDisputeCommand) setDisputeID(disputeID kernel.UUID) error {
	if err := disputeID.Validate(); err != nil {
		return err
	}

	c.disputeID = disputeID
	return nil
}

func (c *AdvanceDisputeCommand) setTarget(target dispute.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *AdvanceDisputeCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
