package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"
)

// OpenDisputeCommandHandler handles dispute filing. The disputed order must
// exist; the dispute never mutates it.
type OpenDisputeCommandHandler struct {
	uowFactory DisputeUoWFactory
}

// NewOpenDisputeCommandHandler creates a handler for dispute filing.
func NewOpenDisputeCommandHandler(uowFactory DisputeUoWFactory) OpenDisputeCommandHandler {
	return OpenDisputeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the dispute filing command. An internal note lands in the
// order's tracking history so operators see disputes next to the workflow.
func (h *OpenDisputeCommandHandler) Handle(ctx context.Context, cmd OpenDisputeCommand) error {
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

	newDispute, err := dispute.NewDispute(
		cmd.DisputeID(), aggregate.ID(), cmd.Complaint(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if err = uow.DisputeRepository().Add(ctx, newDispute); err != nil {
		return err
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventNote,
		fmt.Sprintf("dispute %s opened", newDispute.ID()),
		cmd.Actor(), true, now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
