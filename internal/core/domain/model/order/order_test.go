package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLineItem(t *testing.T, quantity int, unitPrice int64) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), quantity, decimal.NewFromInt(unitPrice))
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T, items ...order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.LineItem{mustLineItem(t, 1, 50000)}
	}
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.NewOrderNumber(time.Now()),
		"buyer-42",
		items,
		decimal.Zero,
		decimal.Zero,
		decimal.NewFromFloat(0.1),
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("computes subtotal from line items", func(t *testing.T) {
		// 1 x 50000 + 2 x 25000 = 100000
		o := newTestOrder(t, mustLineItem(t, 1, 50000), mustLineItem(t, 2, 25000))

		assert.True(t, o.Subtotal().Equal(decimal.NewFromInt(100000)),
			"subtotal is %s", o.Subtotal())
		assert.Equal(t, order.PendingPayment, o.Status())
		assert.Equal(t, 1, o.Version())
	})

	t.Run("computes commission and vendor payout", func(t *testing.T) {
		o := newTestOrder(t, mustLineItem(t, 1, 100000))

		assert.True(t, o.Commission().Equal(decimal.NewFromInt(10000)))
		assert.True(t, o.VendorPayout().Equal(decimal.NewFromInt(90000)))
		assert.True(t, o.Commission().LessThanOrEqual(o.Subtotal()))
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), order.NewOrderNumber(time.Now()), "buyer-42",
			nil, decimal.Zero, decimal.Zero, decimal.Zero, time.Now())

		require.ErrorIs(t, err, order.ErrNoLineItems)
	})

	t.Run("rejects blank buyer reference", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), order.NewOrderNumber(time.Now()), "  ",
			[]order.LineItem{mustLineItem(t, 1, 100)},
			decimal.Zero, decimal.Zero, decimal.Zero, time.Now())

		require.ErrorIs(t, err, order.ErrBuyerRefIsRequired)
	})

	t.Run("rejects commission rate above 1", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), order.NewOrderNumber(time.Now()), "buyer-42",
			[]order.LineItem{mustLineItem(t, 1, 100)},
			decimal.Zero, decimal.Zero, decimal.NewFromFloat(1.5), time.Now())

		require.Error(t, err)
	})

	t.Run("rejects discount exceeding subtotal plus tax", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), order.NewOrderNumber(time.Now()), "buyer-42",
			[]order.LineItem{mustLineItem(t, 1, 100)},
			decimal.Zero, decimal.NewFromInt(500), decimal.Zero, time.Now())

		require.Error(t, err)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("nil order fails validation", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Advance(t *testing.T) {
	t.Run("full forward chain stamps non-decreasing timestamps", func(t *testing.T) {
		o := newTestOrder(t)
		base := time.Now()

		chain := []order.Status{order.Paid, order.Processing, order.Shipped, order.InTransit, order.Delivered}
		for i, target := range chain {
			changed, err := o.Advance(target, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, target, o.Status())
		}

		ts := o.Timestamps()
		require.NotNil(t, ts.PaidAt)
		require.NotNil(t, ts.ProcessingStartedAt)
		require.NotNil(t, ts.ShippedAt)
		require.NotNil(t, ts.InTransitAt)
		require.NotNil(t, ts.DeliveredAt)

		stamps := []time.Time{*ts.PaidAt, *ts.ProcessingStartedAt, *ts.ShippedAt, *ts.InTransitAt, *ts.DeliveredAt}
		for i := 1; i < len(stamps); i++ {
			assert.False(t, stamps[i].Before(stamps[i-1]),
				"timestamp %d precedes timestamp %d", i, i-1)
		}
	})

	t.Run("backward transition fails and leaves order unchanged", func(t *testing.T) {
		o := newTestOrder(t)
		for _, target := range []order.Status{order.Paid, order.Processing, order.Shipped, order.InTransit, order.Delivered} {
			_, err := o.Advance(target, time.Now())
			require.NoError(t, err)
		}

		_, err := o.Advance(order.Processing, time.Now())

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("same-state advance is an idempotent no-op", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Advance(order.Paid, time.Now())
		require.NoError(t, err)
		firstPaidAt := *o.Timestamps().PaidAt

		changed, err := o.Advance(order.Paid, time.Now().Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, order.Paid, o.Status())
		assert.Equal(t, firstPaidAt, *o.Timestamps().PaidAt, "timestamp must not be rewritten")
	})

	t.Run("terminal states admit no transition", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Advance(order.Cancelled, time.Now())
		require.NoError(t, err)

		for _, target := range allStatuses() {
			if target == order.Cancelled {
				continue
			}
			_, err := o.Advance(target, time.Now())
			require.ErrorIs(t, err, order.ErrInvalidTransition, "Cancelled -> %s must fail", target)
		}
	})
}

func TestOrder_RecordDeliveryAttempt(t *testing.T) {
	inTransitOrder := func(t *testing.T) *order.Order {
		o := newTestOrder(t)
		for _, target := range []order.Status{order.Paid, order.Processing, order.Shipped, order.InTransit} {
			_, err := o.Advance(target, time.Now())
			require.NoError(t, err)
		}
		return o
	}

	t.Run("successful attempt advances to Delivered", func(t *testing.T) {
		o := inTransitOrder(t)

		attempt, err := o.RecordDeliveryAttempt(order.AttemptSuccessful, "", nil, time.Now())

		require.NoError(t, err)
		assert.Equal(t, 1, attempt.AttemptNumber())
		assert.Nil(t, attempt.NextAttemptAt())
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("failed attempt below cap schedules redelivery", func(t *testing.T) {
		o := inTransitOrder(t)
		now := time.Now()

		attempt, err := o.RecordDeliveryAttempt(order.AttemptFailed, "nobody home", nil, now)

		require.NoError(t, err)
		require.NotNil(t, attempt.NextAttemptAt())
		assert.Equal(t, now.Add(order.RedeliveryDelay), *attempt.NextAttemptAt())
		assert.Equal(t, order.InTransit, o.Status())
		require.NotNil(t, o.NextDeliveryAttemptAt())
	})

	t.Run("three failed attempts reach the cap with no fourth scheduled", func(t *testing.T) {
		o := inTransitOrder(t)

		for i := 1; i <= order.MaxDeliveryAttempts; i++ {
			attempt, err := o.RecordDeliveryAttempt(order.AttemptFailed, "address unreachable", nil, time.Now())
			require.NoError(t, err)
			assert.Equal(t, i, attempt.AttemptNumber())

			if i < order.MaxDeliveryAttempts {
				assert.NotNil(t, attempt.NextAttemptAt())
			} else {
				assert.Nil(t, attempt.NextAttemptAt(), "no further attempt scheduled at the cap")
			}
		}

		// Order stays put for manual intervention; a fourth record is rejected.
		assert.Equal(t, order.InTransit, o.Status())
		_, err := o.RecordDeliveryAttempt(order.AttemptFailed, "still unreachable", nil, time.Now())
		require.ErrorIs(t, err, order.ErrDeliveryAttemptsExhausted)
		assert.Len(t, o.DeliveryAttempts(), order.MaxDeliveryAttempts)
	})

	t.Run("attempt numbers increase strictly from 1", func(t *testing.T) {
		o := inTransitOrder(t)

		first, err := o.RecordDeliveryAttempt(order.AttemptFailed, "closed", nil, time.Now())
		require.NoError(t, err)
		second, err := o.RecordDeliveryAttempt(order.AttemptSuccessful, "", []string{"sig://proof/1"}, time.Now())
		require.NoError(t, err)

		assert.Equal(t, 1, first.AttemptNumber())
		assert.Equal(t, 2, second.AttemptNumber())
		assert.Equal(t, []string{"sig://proof/1"}, second.EvidenceURIs())
	})
}

func TestOrder_SetCurrentLocation(t *testing.T) {
	o := newTestOrder(t)
	require.Nil(t, o.CurrentLocation())

	point, err := kernel.NewGeoPoint(4.60971, -74.08175)
	require.NoError(t, err)
	require.NoError(t, o.SetCurrentLocation(point))

	require.NotNil(t, o.CurrentLocation())
	assert.True(t, o.CurrentLocation().IsEqual(point))

	var zero kernel.GeoPoint
	require.Error(t, o.SetCurrentLocation(zero))
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round-trips state and version", func(t *testing.T) {
		original := newTestOrder(t, mustLineItem(t, 2, 25000))
		_, err := original.Advance(order.Paid, time.Now())
		require.NoError(t, err)

		restored, err := order.RestoreOrder(
			original.ID(),
			original.OrderNumber(),
			original.BuyerRef(),
			original.Items(),
			original.Tax(),
			original.Discount(),
			original.CommissionRate(),
			original.Status(),
			original.CreatedAt(),
			original.Timestamps(),
			original.CurrentLocation(),
			original.DeliveryAttempts(),
			7,
		)

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(original))
		assert.Equal(t, order.Paid, restored.Status())
		assert.Equal(t, 7, restored.Version())
		assert.True(t, restored.Subtotal().Equal(original.Subtotal()))
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		original := newTestOrder(t)

		_, err := order.RestoreOrder(
			original.ID(), original.OrderNumber(), original.BuyerRef(), original.Items(),
			original.Tax(), original.Discount(), original.CommissionRate(),
			order.Unknown, original.CreatedAt(), order.Timestamps{}, nil, nil, 1)

		require.Error(t, err)
	})

	t.Run("rejects non-positive version", func(t *testing.T) {
		original := newTestOrder(t)

		_, err := order.RestoreOrder(
			original.ID(), original.OrderNumber(), original.BuyerRef(), original.Items(),
			original.Tax(), original.Discount(), original.CommissionRate(),
			order.PendingPayment, original.CreatedAt(), order.Timestamps{}, nil, nil, 0)

		require.Error(t, err)
	})
}
