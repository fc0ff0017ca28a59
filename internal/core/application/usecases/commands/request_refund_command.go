package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/pkg/guard"
)

var ErrRequestRefundCommandIsNotConstructed = errors.New(
	"RequestRefundCommand must be created via NewRequestRefundCommand constructor",
)

// RequestRefundCommand represents a request to return part of an order's
// money to the buyer.
type RequestRefundCommand struct { //nolint:recvcheck //using for validation
	refundID kernel.UUID
	orderID  kernel.UUID
	amount   decimal.Decimal
	reason   string
	actor    string

	guard guard.ConstructorGuard
}

// NewRequestRefundCommand creates a command to open a refund request.
func NewRequestRefundCommand(
	refundID kernel.UUID,
	orderID kernel.UUID,
	amount decimal.Decimal,
	reason string,
	actor string,
) (RequestRefundCommand, error) {
	cmd := RequestRefundCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRefundID(refundID),
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setReason(reason),
		cmd.setActor(actor),
	); err != nil {
		return RequestRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestRefundCommand) Validate() error {
	return c.guard.Validate(ErrRequestRefundCommandIsNotConstructed)
}

// RefundID returns the unique identifier for the new refund.
func (c RequestRefundCommand) RefundID() kernel.UUID {
	return c.refundID
}

// OrderID returns the identifier of the refunded order.
func (c RequestRefundCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Amount returns the requested refund amount.
func (c RequestRefundCommand) Amount() decimal.Decimal {
	return c.amount
}

// Reason returns the stated refund reason.
func (c RequestRefundCommand) Reason() string {
	return c.reason
}

// Actor returns the principal requesting the refund.
func (c RequestRefundCommand) Actor() string {
	return c.actor
}

func (c *RequestRefundCommand) setRefundID(refundID kernel.UUID) error {
	if err := refundID.Validate(); err != nil {
		return err
	}

	c.refundID = refundID
	return nil
}

func (c *RequestRefundCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RequestRefundCommand) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return refund.ErrAmountIsNotPositive
	}

	c.amount = amount
	return nil
}

func (c *RequestRefundCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}

func (c *RequestRefundCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
