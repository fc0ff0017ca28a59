package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
)

// CancelOrderCommandHandler handles order cancellation. A cancellation is the
// Cancelled workflow transition plus, for orders that already collected
// money, a refund signal to the payment gateway.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command.
//
// When the order had reached Paid or any later state, the payment gateway is
// asked to give the money back and the returned reference is recorded in an
// internal tracking event riding the same transaction.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	from := aggregate.Status()
	changed, err := aggregate.Advance(order.Cancelled, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventStatusChanged,
		transitionDescription(from, order.Cancelled, cmd.Reason()),
		cmd.Actor(), false, now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, event); err != nil {
		return err
	}

	if aggregate.Timestamps().PaidAt != nil {
		if err = signalCancellationRefund(ctx, uow, h.gateway, aggregate, now); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyStateChange(ctx, aggregate.ID(), from, order.Cancelled)
	return nil
}

// signalCancellationRefund asks the gateway to return the order's money and
// records the reference in an internal event. Shared by the single-order and
// bulk cancellation paths so a cancelled paid order always leaves a refund
// trail.
func signalCancellationRefund(
	ctx context.Context,
	uow OrderUoW,
	gateway ports.PaymentGateway,
	aggregate *order.Order,
	now time.Time,
) error {
	reference, err := gateway.InitiateRefund(ctx, aggregate.ID(), kernel.NewUUID())
	if err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventRefundInitiated,
		fmt.Sprintf("cancellation refund initiated, gateway ref %s", reference),
		tracking.SystemActor, true, now)
	if err != nil {
		return err
	}
	return uow.TrackingRepository().Add(ctx, event)
}
