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

// RecordDeliveryAttemptCommandHandler handles delivery attempt reports.
// A successful attempt drives the order to Delivered; a failed one below the
// attempt cap schedules a redelivery. Either way the attempt lands in the
// order's tracking history.
type RecordDeliveryAttemptCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewRecordDeliveryAttemptCommandHandler creates a handler for delivery
// attempt reports.
func NewRecordDeliveryAttemptCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) RecordDeliveryAttemptCommandHandler {
	return RecordDeliveryAttemptCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the attempt report.
//
// Below the cap a failed attempt appends a redelivery_scheduled event next to
// the delivery_attempted one. The attempt that reaches the cap leaves the
// order untouched and is recorded with an internal-only event so operators
// can intervene. Reports past the cap are rejected by the aggregate.
func (h *RecordDeliveryAttemptCommandHandler) Handle(
	ctx context.Context,
	cmd RecordDeliveryAttemptCommand,
) error {
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
	attempt, err := aggregate.RecordDeliveryAttempt(
		cmd.Status(), cmd.FailureReason(), cmd.EvidenceURIs(), now)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.appendAttemptEvents(ctx, uow, aggregate, attempt, cmd, now); err != nil {
		return err
	}

	if aggregate.Status() != from {
		var event *tracking.Event
		event, err = tracking.NewEvent(
			kernel.NewUUID(), aggregate.ID(), tracking.EventStatusChanged,
			transitionDescription(from, aggregate.Status(), ""),
			tracking.SystemActor, false, now)
		if err != nil {
			return err
		}
		if err = uow.TrackingRepository().Add(ctx, event); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() != from {
		h.notifier.NotifyStateChange(ctx, aggregate.ID(), from, aggregate.Status())
	}
	return nil
}

func (h *RecordDeliveryAttemptCommandHandler) appendAttemptEvents(
	ctx context.Context,
	uow OrderUoW,
	aggregate *order.Order,
	attempt order.DeliveryAttempt,
	cmd RecordDeliveryAttemptCommand,
	now time.Time,
) error {
	atCap := attempt.Status() == order.AttemptFailed &&
		attempt.AttemptNumber() == order.MaxDeliveryAttempts

	attempted, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventDeliveryAttempted,
		attemptDescription(attempt, cmd.FailureReason()),
		cmd.Actor(), atCap, now)
	if err != nil {
		return err
	}
	attempted.AttachEvidence(cmd.EvidenceURIs()...)
	if err = uow.TrackingRepository().Add(ctx, attempted); err != nil {
		return err
	}

	next := attempt.NextAttemptAt()
	if next == nil {
		return nil
	}

	redelivery, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventRedeliveryScheduled,
		fmt.Sprintf("redelivery scheduled for %s", next.Format(time.RFC3339)),
		tracking.SystemActor, false, now)
	if err != nil {
		return err
	}
	return uow.TrackingRepository().Add(ctx, redelivery)
}

func attemptDescription(attempt order.DeliveryAttempt, failureReason string) string {
	if attempt.Status() == order.AttemptSuccessful {
		return fmt.Sprintf("attempt %d succeeded", attempt.AttemptNumber())
	}
	return fmt.Sprintf("attempt %d failed: %s", attempt.AttemptNumber(), failureReason)
}
