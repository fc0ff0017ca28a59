package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/core/domain/services"
)

// RequestRefundCommandHandler handles refund requests. A request only claims
// part of the refundable remainder; the binding cap check happens again at
// approval, over the ledger, inside that transaction.
type RequestRefundCommandHandler struct {
	uowFactory RefundUoWFactory
	policy     services.RefundPolicy
}

// NewRequestRefundCommandHandler creates a handler for refund requests.
func NewRequestRefundCommandHandler(uowFactory RefundUoWFactory) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewRefundPolicy(),
	}
}

// Handle processes the refund request command. An amount already exceeding
// the refundable remainder is rejected here as an early courtesy check.
func (h *RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	ledger, err := uow.RefundRepository().GetByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	remaining, err := h.policy.Remaining(aggregate, ledger)
	if err != nil {
		return err
	}
	if cmd.Amount().GreaterThan(remaining) {
		return refund.ErrExceedsOrderTotal
	}

	newRefund, err := refund.NewRefund(
		cmd.RefundID(), aggregate.ID(), cmd.Amount(), cmd.Reason(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if err = uow.RefundRepository().Add(ctx, newRefund); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
