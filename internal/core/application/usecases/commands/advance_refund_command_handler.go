package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// AdvanceRefundCommandHandler handles refund lifecycle transitions. Entering
// Approved re-checks the cumulative cap over the order's full ledger inside
// the transaction; entering Processing hands the refund to the payment
// gateway and records the returned reference.
type AdvanceRefundCommandHandler struct {
	uowFactory RefundUoWFactory
	gateway    ports.PaymentGateway
	policy     services.RefundPolicy
}

// NewAdvanceRefundCommandHandler creates a handler for refund transitions.
func NewAdvanceRefundCommandHandler(
	uowFactory RefundUoWFactory,
	gateway ports.PaymentGateway,
) AdvanceRefundCommandHandler {
	return AdvanceRefundCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		policy:     services.NewRefundPolicy(),
	}
}

// Handle processes the refund transition command.
func (h *AdvanceRefundCommandHandler) Handle(ctx context.Context, cmd AdvanceRefundCommand) error {
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

	aggregate, err := uow.RefundRepository().Get(ctx, cmd.RefundID())
	if err != nil {
		return err
	}

	if cmd.Target() == refund.Approved {
		if err = h.checkCap(ctx, uow, aggregate); err != nil {
			return err
		}
	}

	if err = aggregate.AdvanceTo(cmd.Target(), now); err != nil {
		return err
	}

	if cmd.Target() == refund.Processing {
		if err = h.initiate(ctx, uow, aggregate, now); err != nil {
			return err
		}
	}

	if err = uow.RefundRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// checkCap enforces the cumulative refund cap over the ledger, excluding the
// refund being approved.
func (h *AdvanceRefundCommandHandler) checkCap(
	ctx context.Context,
	uow RefundUoW,
	aggregate *refund.Refund,
) error {
	orderAggregate, err := uow.OrderRepository().Get(ctx, aggregate.OrderID())
	if err != nil {
		return err
	}

	ledger, err := uow.RefundRepository().GetByOrder(ctx, aggregate.OrderID())
	if err != nil {
		return err
	}

	siblings := make([]*refund.Refund, 0, len(ledger))
	for _, r := range ledger {
		if r.ID().IsEqual(aggregate.ID()) {
			continue
		}
		siblings = append(siblings, r)
	}

	return h.policy.Authorize(orderAggregate, siblings, aggregate)
}

// initiate asks the gateway to move the money and records the reference in
// an internal tracking event.
func (h *AdvanceRefundCommandHandler) initiate(
	ctx context.Context,
	uow RefundUoW,
	aggregate *refund.Refund,
	now time.Time,
) error {
	reference, err := h.gateway.InitiateRefund(ctx, aggregate.OrderID(), aggregate.ID())
	if err != nil {
		return err
	}
	if err = aggregate.AttachGatewayRef(reference); err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.OrderID(), tracking.EventRefundInitiated,
		fmt.Sprintf("refund %s initiated, gateway ref %s", aggregate.ID(), reference),
		tracking.SystemActor, true, now)
	if err != nil {
		return err
	}
	return uow.TrackingRepository().Add(ctx, event)
}
