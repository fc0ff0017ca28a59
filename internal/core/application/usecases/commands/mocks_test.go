package commands_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/dispute"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/core/domain/model/tracking"
	"orderflow/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetStalePendingPayment(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) Add(ctx context.Context, event *tracking.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockTrackingRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
	includeInternal bool,
) ([]*tracking.Event, error) {
	args := m.Called(ctx, orderID, includeInternal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.Event), args.Error(1)
}
func (m *MockTrackingRepository) LatestLocation(
	ctx context.Context,
	orderID kernel.UUID,
) (*kernel.GeoPoint, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kernel.GeoPoint), args.Error(1)
}

type MockDisputeRepository struct{ mock.Mock }

func (m *MockDisputeRepository) Add(ctx context.Context, d *dispute.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDisputeRepository) Update(ctx context.Context, d *dispute.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDisputeRepository) Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispute.Dispute), args.Error(1)
}
func (m *MockDisputeRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*dispute.Dispute, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dispute.Dispute), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRefundRepository) Update(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}
func (m *MockRefundRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}
func (m *MockRefundRepository) GetAllInStatus(ctx context.Context, status refund.Status) ([]*refund.Refund, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockOrderUoW) TrackingRepository() ports.TrackingRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDisputeUoW struct{ MockOrderUoW }

func (m *MockDisputeUoW) DisputeRepository() ports.DisputeRepository {
	args := m.Called()
	return args.Get(0).(ports.DisputeRepository)
}

type MockDisputeUoWFactory struct{ mock.Mock }

func (m *MockDisputeUoWFactory) Create() commands.DisputeUoW {
	args := m.Called()
	return args.Get(0).(commands.DisputeUoW)
}

type MockRefundUoW struct{ MockOrderUoW }

func (m *MockRefundUoW) RefundRepository() ports.RefundRepository {
	args := m.Called()
	return args.Get(0).(ports.RefundRepository)
}

type MockRefundUoWFactory struct{ mock.Mock }

func (m *MockRefundUoWFactory) Create() commands.RefundUoW {
	args := m.Called()
	return args.Get(0).(commands.RefundUoW)
}

type MockInventory struct{ mock.Mock }

func (m *MockInventory) Reserve(ctx context.Context, productID kernel.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}
func (m *MockInventory) Release(ctx context.Context, productID kernel.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) InitiateRefund(
	ctx context.Context,
	orderID kernel.UUID,
	refundID kernel.UUID,
) (string, error) {
	args := m.Called(ctx, orderID, refundID)
	return args.String(0), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyStateChange(
	ctx context.Context,
	orderID kernel.UUID,
	from order.Status,
	to order.Status,
) {
	m.Called(ctx, orderID, from, to)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, point kernel.GeoPoint) (string, error) {
	args := m.Called(ctx, point)
	return args.String(0), args.Error(1)
}

// staticAuthorizer grants a fixed clearance regardless of actor.
type staticAuthorizer struct{ clearance ports.Clearance }

func (a staticAuthorizer) ClearanceFor(string) ports.Clearance { return a.clearance }

func mustLineItem(t testingT, price int64) order.LineItem {
	item, err := order.NewLineItem(kernel.NewUUID(), 1, decimal.NewFromInt(price))
	if err != nil {
		t.Fatalf("line item: %v", err)
	}
	return item
}

// orderInStatus builds an order and walks it to the wanted workflow state.
func orderInStatus(t testingT, status order.Status) *order.Order {
	o, err := order.NewOrder(
		kernel.NewUUID(), order.NewOrderNumber(time.Now()), "buyer-1",
		[]order.LineItem{mustLineItem(t, 100000)},
		decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	path := []order.Status{
		order.Paid, order.Processing, order.Shipped,
		order.InTransit, order.Delivered, order.Completed,
	}
	for _, step := range path {
		if o.Status() == status {
			return o
		}
		if _, err = o.Advance(step, time.Now()); err != nil {
			t.Fatalf("advance to %s: %v", step, err)
		}
	}
	if o.Status() != status {
		t.Fatalf("unreachable status %s", status)
	}
	return o
}

type testingT interface {
	Fatalf(format string, args ...any)
}
