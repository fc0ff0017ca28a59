package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
)

// RecordLocationPingCommandHandler handles carrier position reports. Each
// ping appends a geo event and moves the order's current-location mirror.
type RecordLocationPingCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
}

// NewRecordLocationPingCommandHandler creates a handler for position reports.
func NewRecordLocationPingCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
) RecordLocationPingCommandHandler {
	return RecordLocationPingCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
	}
}

// Handle processes the position report.
//
// The event is enriched with a reverse-geocoded address when the geocoder has
// one; a geocoder failure degrades to raw coordinates and never fails the
// command.
func (h *RecordLocationPingCommandHandler) Handle(
	ctx context.Context,
	cmd RecordLocationPingCommand,
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

	if err = aggregate.SetCurrentLocation(cmd.Point()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	address, err := h.geocoder.ReverseGeocode(ctx, cmd.Point())
	if err != nil || address == "" {
		address = cmd.Point().String()
	}

	event, err := tracking.NewEvent(
		kernel.NewUUID(), aggregate.ID(), tracking.EventLocationPing,
		"position report", cmd.Actor(), false, now)
	if err != nil {
		return err
	}
	if err = event.AttachPoint(cmd.Point(), address); err != nil {
		return err
	}
	if err = uow.TrackingRepository().Add(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
