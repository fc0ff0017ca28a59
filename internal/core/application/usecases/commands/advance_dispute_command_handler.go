package commands

import (
	"context"
	"time"
)

// AdvanceDisputeCommandHandler handles dispute lifecycle transitions,
// including the escalate and bounce-back loop.
type AdvanceDisputeCommandHandler struct {
	uowFactory DisputeUoWFactory
}

// NewAdvanceDisputeCommandHandler creates a handler for dispute transitions.
func NewAdvanceDisputeCommandHandler(uowFactory DisputeUoWFactory) AdvanceDisputeCommandHandler {
	return AdvanceDisputeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the dispute transition command.
func (h *AdvanceDisputeCommandHandler) Handle(ctx context.Context, cmd AdvanceDisputeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.DisputeRepository().Get(ctx, cmd.DisputeID())
	if err != nil {
		return err
	}

	if err = aggregate.AdvanceTo(cmd.Target(), cmd.Resolution(), time.Now()); err != nil {
		return err
	}

	if err = uow.DisputeRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
