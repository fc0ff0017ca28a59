package tracking_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Run("creates a minimal event", func(t *testing.T) {
		orderID := kernel.NewUUID()

		event, err := tracking.NewEvent(
			kernel.NewUUID(), orderID, tracking.EventOrderCreated,
			"order created", tracking.SystemActor, false, time.Now())

		require.NoError(t, err)
		require.NoError(t, event.Validate())
		assert.True(t, event.OrderID().IsEqual(orderID))
		assert.Equal(t, tracking.EventOrderCreated, event.Type())
		assert.Nil(t, event.Point())
		assert.False(t, event.InternalOnly())
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		_, err := tracking.NewEvent(
			kernel.NewUUID(), kernel.NewUUID(), tracking.EventNote,
			"note", "", false, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects undefined event type", func(t *testing.T) {
		_, err := tracking.NewEvent(
			kernel.NewUUID(), kernel.NewUUID(), tracking.EventUnknown,
			"?", tracking.SystemActor, false, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects nil order id", func(t *testing.T) {
		var zero kernel.UUID

		_, err := tracking.NewEvent(
			kernel.NewUUID(), zero, tracking.EventNote,
			"note", tracking.SystemActor, false, time.Now())

		require.Error(t, err)
	})
}

func TestEvent_AttachPoint(t *testing.T) {
	t.Run("carries coordinates and address", func(t *testing.T) {
		event, err := tracking.NewEvent(
			kernel.NewUUID(), kernel.NewUUID(), tracking.EventLocationPing,
			"position report", "courier-9", false, time.Now())
		require.NoError(t, err)

		point, err := kernel.NewGeoPointWithAccuracy(4.60971, -74.08175, 8)
		require.NoError(t, err)
		require.NoError(t, event.AttachPoint(point, "Cra 7 #32-16, Bogotá"))

		require.NotNil(t, event.Point())
		assert.True(t, event.Point().IsEqual(point))
		assert.Equal(t, "Cra 7 #32-16, Bogotá", event.Address())
	})

	t.Run("rejects unconstructed point", func(t *testing.T) {
		event, err := tracking.NewEvent(
			kernel.NewUUID(), kernel.NewUUID(), tracking.EventLocationPing,
			"position report", "courier-9", false, time.Now())
		require.NoError(t, err)

		var zero kernel.GeoPoint
		require.Error(t, event.AttachPoint(zero, ""))
		assert.Nil(t, event.Point())
	})
}

func TestEvent_Validate(t *testing.T) {
	t.Run("zero value fails", func(t *testing.T) {
		var event tracking.Event
		require.ErrorIs(t, event.Validate(), tracking.ErrEventIsNotConstructed)
	})

	t.Run("nil fails", func(t *testing.T) {
		var event *tracking.Event
		require.ErrorIs(t, event.Validate(), tracking.ErrEventIsNotConstructed)
	})
}

func TestRestoreEvent(t *testing.T) {
	point, err := kernel.NewGeoPoint(6.2442, -75.5736)
	require.NoError(t, err)
	createdAt := time.Now().Add(-time.Hour)

	event, err := tracking.RestoreEvent(
		kernel.NewUUID(), kernel.NewUUID(), tracking.EventDeliveryAttempted,
		"attempt 2 failed", "courier-9", true,
		&point, "Medellín", []string{"photo://evidence/22"}, createdAt)

	require.NoError(t, err)
	assert.True(t, event.InternalOnly())
	assert.Equal(t, createdAt, event.CreatedAt())
	assert.Equal(t, []string{"photo://evidence/22"}, event.EvidenceURIs())
	require.NotNil(t, event.Point())
	assert.Equal(t, "Medellín", event.Address())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "status_changed", tracking.EventStatusChanged.String())
	assert.Equal(t, "location_ping", tracking.EventLocationPing.String())
	assert.Equal(t, "unknown", tracking.EventType(99).String())
}
