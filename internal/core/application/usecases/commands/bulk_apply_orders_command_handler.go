package commands

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// BulkFailure identifies one order a bulk operation could not mutate and the
// reason it was left alone.
type BulkFailure struct {
	OrderID kernel.UUID
	Reason  string
}

// BulkResult partitions the input set of a bulk operation. The three lists
// are disjoint and together cover every requested order exactly once.
type BulkResult struct {
	Succeeded []kernel.UUID
	Failed    []BulkFailure
	Skipped   []kernel.UUID
}

// BulkApplyOrdersCommandHandler fans one workflow action out over a set of
// orders with bounded parallelism. Every order rides its own transaction, so
// one failing order never poisons the rest.
type BulkApplyOrdersCommandHandler struct {
	uowFactory  OrderUoWFactory
	authorizer  ports.Authorizer
	gateway     ports.PaymentGateway
	workerLimit int
}

// NewBulkApplyOrdersCommandHandler creates a handler for bulk workflow
// operations. The gateway is needed because a bulk cancel of a paid order
// refunds it exactly like a single cancel. workerLimit bounds how many orders
// are mutated concurrently; a non-positive limit falls back to serial
// processing.
func NewBulkApplyOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	gateway ports.PaymentGateway,
	workerLimit int,
) BulkApplyOrdersCommandHandler {
	if workerLimit <= 0 {
		workerLimit = 1
	}
	return BulkApplyOrdersCommandHandler{
		uowFactory:  uowFactory,
		authorizer:  authorizer,
		gateway:     gateway,
		workerLimit: workerLimit,
	}
}

// Handle processes the bulk command.
//
// Admin clearance is checked before any order is touched. Per-order errors
// are converted into Failed entries instead of aborting the fan-out; a
// cancelled context stops not-yet-started orders (reported Skipped) while
// in-flight orders finish their transaction. Handle returns only after every
// worker has joined.
func (h *BulkApplyOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd BulkApplyOrdersCommand,
) (BulkResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkResult{}, err
	}

	if h.authorizer.ClearanceFor(cmd.Actor()) < ports.ClearanceAdmin {
		return BulkResult{}, errs.NewPermissionDeniedError(cmd.Actor(), "bulk apply orders")
	}

	var (
		mu     sync.Mutex
		result BulkResult
	)

	group := new(errgroup.Group)
	group.SetLimit(h.workerLimit)

	for _, orderID := range cmd.OrderIDs() {
		group.Go(func() error {
			// The errgroup limiter admits goroutines that were queued
			// before cancellation; they must not start new work.
			if ctx.Err() != nil {
				mu.Lock()
				result.Skipped = append(result.Skipped, orderID)
				mu.Unlock()
				return nil
			}

			err := h.applyToOrder(ctx, orderID, cmd)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, BulkFailure{OrderID: orderID, Reason: err.Error()})
				return nil
			}
			result.Succeeded = append(result.Succeeded, orderID)
			return nil
		})
	}

	_ = group.Wait()
	return result, nil
}

// applyToOrder runs the action against one order in its own unit of work.
func (h *BulkApplyOrdersCommandHandler) applyToOrder(
	ctx context.Context,
	orderID kernel.UUID,
	cmd BulkApplyOrdersCommand,
) error {
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	from := aggregate.Status()
	changed, err := aggregate.Advance(cmd.Action().Target(), now)
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
		transitionDescription(from, cmd.Action().Target(), "bulk "+cmd.Action().String()),
		cmd.Actor(), false, now)
	if err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, event); err != nil {
		return err
	}

	// A bulk cancel carries the same money semantics as a single cancel:
	// orders that already collected payment get their refund signalled
	// inside the same per-order transaction.
	if cmd.Action() == BulkActionCancel && aggregate.Timestamps().PaidAt != nil {
		if err = signalCancellationRefund(ctx, uow, h.gateway, aggregate, now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
