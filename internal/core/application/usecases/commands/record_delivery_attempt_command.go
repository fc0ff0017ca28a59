package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrRecordDeliveryAttemptCommandIsNotConstructed = errors.New(
	"RecordDeliveryAttemptCommand must be created via NewRecordDeliveryAttemptCommand constructor",
)

// RecordDeliveryAttemptCommand represents a courier reporting the outcome of
// a delivery visit, optionally with evidence captured at the door.
type RecordDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	status        order.AttemptStatus
	failureReason string
	evidenceURIs  []string
	actor         string

	guard guard.ConstructorGuard
}

// NewRecordDeliveryAttemptCommand creates a command to record one delivery
// attempt. The failure reason and evidence are optional.
func NewRecordDeliveryAttemptCommand(
	orderID kernel.UUID,
	status order.AttemptStatus,
	failureReason string,
	evidenceURIs []string,
	actor string,
) (RecordDeliveryAttemptCommand, error) {
	cmd := RecordDeliveryAttemptCommand{
		failureReason: failureReason,
		evidenceURIs:  evidenceURIs,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
		cmd.setActor(actor),
	); err != nil {
		return RecordDeliveryAttemptCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryAttemptCommandIsNotConstructed)
}

// OrderID returns the identifier of the visited order.
func (c RecordDeliveryAttemptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the reported attempt outcome.
func (c RecordDeliveryAttemptCommand) Status() order.AttemptStatus {
	return c.status
}

// FailureReason returns why the attempt failed, empty on success.
func (c RecordDeliveryAttemptCommand) FailureReason() string {
	return c.failureReason
}

// EvidenceURIs returns references to evidence captured during the visit.
func (c RecordDeliveryAttemptCommand) EvidenceURIs() []string {
	return c.evidenceURIs
}

// Actor returns the courier reporting the attempt.
func (c RecordDeliveryAttemptCommand) Actor() string {
	return c.actor
}

func (c *RecordDeliveryAttemptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordDeliveryAttemptCommand) setStatus(status order.AttemptStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *RecordDeliveryAttemptCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
