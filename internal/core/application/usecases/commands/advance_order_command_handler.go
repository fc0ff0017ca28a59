package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
)

// AdvanceOrderCommandHandler handles workflow transitions for single orders.
// Load, state machine check, timestamp stamp, status_changed event and commit
// happen in one unit of work; the notification hook fires after the commit.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewAdvanceOrderCommandHandler creates a handler for workflow transitions.
func NewAdvanceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the transition command.
//
// A request for the state the order is already in succeeds without writing
// anything: no duplicate event, no notification. The notifier is called only
// after a successful commit and its outcome never affects the result.
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
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
	changed, err := aggregate.Advance(cmd.Target(), now)
	if err != nil {
		return err
	}
	if !changed {
		// Idempotent retry; nothing to persist.
		return nil
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventStatusChanged,
		transitionDescription(from, cmd.Target(), cmd.Notes()),
		cmd.Actor(), false, now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyStateChange(ctx, aggregate.ID(), from, cmd.Target())
	return nil
}

func transitionDescription(from order.Status, to order.Status, notes string) string {
	description := fmt.Sprintf("%s -> %s", from, to)
	if strings.TrimSpace(notes) != "" {
		description = fmt.Sprintf("%s: %s", description, notes)
	}
	return description
}
