package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// memoryStore is a concurrency-safe in-memory order and event store used to
// exercise the bulk fan-out with real parallelism instead of mocks.
type memoryStore struct {
	mu     sync.Mutex
	orders map[kernel.UUID]*order.Order
	events []*tracking.Event
}

func newMemoryStore(orders ...*order.Order) *memoryStore {
	s := &memoryStore{orders: make(map[kernel.UUID]*order.Order)}
	for _, o := range orders {
		s.orders[o.ID()] = o
	}
	return s
}

func (s *memoryStore) Add(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o
	return nil
}

func (s *memoryStore) Update(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o
	return nil
}

func (s *memoryStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (s *memoryStore) addEvent(_ context.Context, event *tracking.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// recordingGateway is a concurrency-safe payment gateway fake that records
// which orders had a refund initiated.
type recordingGateway struct {
	mu    sync.Mutex
	calls []kernel.UUID
}

func (g *recordingGateway) InitiateRefund(
	_ context.Context,
	orderID kernel.UUID,
	_ kernel.UUID,
) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, orderID)
	return "gw-bulk-1", nil
}

type memoryOrderRepo struct{ store *memoryStore }

func (r memoryOrderRepo) Add(ctx context.Context, o *order.Order) error    { return r.store.Add(ctx, o) }
func (r memoryOrderRepo) Update(ctx context.Context, o *order.Order) error { return r.store.Update(ctx, o) }
func (r memoryOrderRepo) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.store.Get(ctx, id)
}
func (r memoryOrderRepo) GetAllInStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	return nil, nil
}
func (r memoryOrderRepo) GetStalePendingPayment(_ context.Context, _ time.Time) ([]*order.Order, error) {
	return nil, nil
}

type memoryTrackingRepo struct{ store *memoryStore }

func (r memoryTrackingRepo) Add(ctx context.Context, event *tracking.Event) error {
	return r.store.addEvent(ctx, event)
}
func (r memoryTrackingRepo) GetByOrder(_ context.Context, _ kernel.UUID, _ bool) ([]*tracking.Event, error) {
	return nil, nil
}
func (r memoryTrackingRepo) LatestLocation(_ context.Context, _ kernel.UUID) (*kernel.GeoPoint, error) {
	return nil, nil
}

type memoryUoW struct{ store *memoryStore }

func (u memoryUoW) Begin(context.Context) error                 { return nil }
func (u memoryUoW) Commit(context.Context) error                { return nil }
func (u memoryUoW) Rollback(context.Context) error              { return nil }
func (u memoryUoW) OrderRepository() ports.OrderRepository      { return memoryOrderRepo{u.store} }
func (u memoryUoW) TrackingRepository() ports.TrackingRepository {
	return memoryTrackingRepo{u.store}
}

type memoryUoWFactory struct{ store *memoryStore }

func (f memoryUoWFactory) Create() commands.OrderUoW { return memoryUoW{f.store} }

func requirePartition(t *testing.T, result commands.BulkResult, input []kernel.UUID) {
	t.Helper()
	seen := make(map[kernel.UUID]int)
	for _, id := range result.Succeeded {
		seen[id]++
	}
	for _, failure := range result.Failed {
		seen[failure.OrderID]++
	}
	for _, id := range result.Skipped {
		seen[id]++
	}

	require.Len(t, seen, len(input))
	for _, id := range input {
		require.Equal(t, 1, seen[id], "order %s must appear exactly once", id)
	}
}

func TestBulkApplyOrdersCommandHandler_Handle_PermissionDenied(t *testing.T) {
	cmd, err := commands.NewBulkApplyOrdersCommand(
		[]kernel.UUID{kernel.NewUUID()}, commands.BulkActionMarkPaid, "operator-1")
	require.NoError(t, err)

	h := commands.NewBulkApplyOrdersCommandHandler(
		memoryUoWFactory{newMemoryStore()},
		staticAuthorizer{ports.ClearanceOperator}, new(recordingGateway), 4)

	_, err = h.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	var denied *errs.PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "operator-1", denied.Actor)
}

func TestBulkApplyOrdersCommandHandler_Handle_MixedOutcome(t *testing.T) {
	ctx := t.Context()

	good := make([]*order.Order, 5)
	for i := range good {
		good[i] = orderInStatus(t, order.Paid)
	}
	delivered := orderInStatus(t, order.Delivered)
	missing := kernel.NewUUID()

	store := newMemoryStore(append(good, delivered)...)
	input := []kernel.UUID{
		good[0].ID(), good[1].ID(), good[2].ID(), good[3].ID(), good[4].ID(),
		delivered.ID(), missing,
	}

	cmd, err := commands.NewBulkApplyOrdersCommand(input, commands.BulkActionMarkProcessing, "admin-1")
	require.NoError(t, err)

	h := commands.NewBulkApplyOrdersCommandHandler(
		memoryUoWFactory{store}, staticAuthorizer{ports.ClearanceAdmin}, new(recordingGateway), 3)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	requirePartition(t, result, input)
	assert.Len(t, result.Succeeded, 5)
	assert.Len(t, result.Failed, 2)
	assert.Empty(t, result.Skipped)

	for _, o := range good {
		assert.Equal(t, order.Processing, o.Status())
	}
	// One status_changed event per mutated order.
	assert.Len(t, store.events, 5)
	// The delivered order was left exactly as it was.
	assert.Equal(t, order.Delivered, delivered.Status())
}

func TestBulkApplyOrdersCommandHandler_Handle_SameStateCountsAsSuccess(t *testing.T) {
	ctx := t.Context()
	paid := orderInStatus(t, order.Paid)
	store := newMemoryStore(paid)

	cmd, err := commands.NewBulkApplyOrdersCommand(
		[]kernel.UUID{paid.ID()}, commands.BulkActionMarkPaid, "admin-1")
	require.NoError(t, err)

	h := commands.NewBulkApplyOrdersCommandHandler(
		memoryUoWFactory{store}, staticAuthorizer{ports.ClearanceAdmin}, new(recordingGateway), 2)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 1)
	// Idempotent retry writes no duplicate event.
	assert.Empty(t, store.events)
}

func TestBulkApplyOrdersCommandHandler_Handle_CancelRefundsPaidOrders(t *testing.T) {
	ctx := t.Context()
	paid := orderInStatus(t, order.Paid)
	unpaid := orderInStatus(t, order.PendingPayment)
	store := newMemoryStore(paid, unpaid)
	gateway := new(recordingGateway)

	input := []kernel.UUID{paid.ID(), unpaid.ID()}
	cmd, err := commands.NewBulkApplyOrdersCommand(input, commands.BulkActionCancel, "admin-1")
	require.NoError(t, err)

	h := commands.NewBulkApplyOrdersCommandHandler(
		memoryUoWFactory{store}, staticAuthorizer{ports.ClearanceAdmin}, gateway, 2)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	requirePartition(t, result, input)
	assert.Len(t, result.Succeeded, 2)
	assert.Equal(t, order.Cancelled, paid.Status())
	assert.Equal(t, order.Cancelled, unpaid.Status())

	// Only the order that collected money reaches the gateway.
	require.Len(t, gateway.calls, 1)
	assert.Equal(t, paid.ID(), gateway.calls[0])

	refundEvents := 0
	for _, event := range store.events {
		if event.Type() == tracking.EventRefundInitiated {
			refundEvents++
			assert.Equal(t, paid.ID(), event.OrderID())
			assert.True(t, event.InternalOnly())
		}
	}
	assert.Equal(t, 1, refundEvents, "Bulk cancel of a paid order must leave a refund trail")
}

func TestBulkApplyOrdersCommandHandler_Handle_CancelledContextSkips(t *testing.T) {
	orders := make([]*order.Order, 8)
	input := make([]kernel.UUID, 8)
	for i := range orders {
		orders[i] = orderInStatus(t, order.Paid)
		input[i] = orders[i].ID()
	}
	store := newMemoryStore(orders...)

	cmd, err := commands.NewBulkApplyOrdersCommand(input, commands.BulkActionMarkProcessing, "admin-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	h := commands.NewBulkApplyOrdersCommandHandler(
		memoryUoWFactory{store}, staticAuthorizer{ports.ClearanceAdmin}, new(recordingGateway), 2)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	requirePartition(t, result, input)
	// Everything was queued after cancellation, so nothing ran.
	assert.Len(t, result.Skipped, 8)
	assert.Empty(t, store.events)
}
