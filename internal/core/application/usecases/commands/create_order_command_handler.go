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

// CreateOrderCommandHandler handles the business logic for order creation.
// Reserves inventory for every line item, persists the order in
// PendingPayment and appends the order_created event in the same transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	inventory  ports.InventoryReservation
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	inventory ports.InventoryReservation,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
	}
}

// Handle processes the order creation command.
//
// Inventory is reserved item by item before the transaction opens; when a
// reservation fails every earlier reservation of the command is released and
// nothing is persisted. Any later persistence failure compensates the
// reservations the same way. AutoProcess attempts the Paid transition through
// the ordinary workflow path after the order is stored.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()

	newOrder, err := order.NewOrder(
		cmd.OrderID(), order.NewOrderNumber(now), cmd.BuyerRef(), cmd.Items(),
		cmd.Tax(), cmd.Discount(), cmd.CommissionRate(), now)
	if err != nil {
		return err
	}

	reserved, err := h.reserveItems(ctx, cmd.Items())
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			h.releaseItems(ctx, reserved)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	created, err := tracking.NewEvent(
		kernel.NewUUID(), newOrder.ID(), tracking.EventOrderCreated,
		fmt.Sprintf("order %s created", newOrder.OrderNumber()),
		tracking.SystemActor, false, now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, created); err != nil {
		return err
	}

	if cmd.AutoProcess() {
		if err = h.autoProcess(ctx, uow, newOrder, now); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	committed = true
	return nil
}

// autoProcess attempts the Paid transition inside the creation transaction.
func (h *CreateOrderCommandHandler) autoProcess(
	ctx context.Context,
	uow OrderUoW,
	newOrder *order.Order,
	now time.Time,
) error {
	changed, err := newOrder.Advance(order.Paid, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = uow.OrderRepository().Update(ctx, newOrder); err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), newOrder.ID(), tracking.EventStatusChanged,
		fmt.Sprintf("%s -> %s", order.PendingPayment, order.Paid),
		tracking.SystemActor, false, now)
	if err != nil {
		return err
	}
	return uow.TrackingRepository().Add(ctx, event)
}

// reserveItems reserves stock per item, releasing earlier reservations of the
// same command when one fails.
func (h *CreateOrderCommandHandler) reserveItems(
	ctx context.Context,
	items []order.LineItem,
) ([]order.LineItem, error) {
	var reserved []order.LineItem
	for _, item := range items {
		if err := h.inventory.Reserve(ctx, item.ProductID(), item.Quantity()); err != nil {
			h.releaseItems(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

func (h *CreateOrderCommandHandler) releaseItems(ctx context.Context, items []order.LineItem) {
	for _, item := range items {
		_ = h.inventory.Release(ctx, item.ProductID(), item.Quantity())
	}
}
