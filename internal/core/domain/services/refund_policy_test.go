package services_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/refund"
	"orderflow/internal/core/domain/services"
)

func newOrderWithTotal(t *testing.T, total int64) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 1, decimal.NewFromInt(total))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), order.NewOrderNumber(time.Now()), "buyer-1",
		[]order.LineItem{item},
		decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	require.NoError(t, err)
	return o
}

func newRefundFor(t *testing.T, o *order.Order, amount int64, status refund.Status) *refund.Refund {
	t.Helper()
	r, err := refund.NewRefund(
		kernel.NewUUID(), o.ID(), decimal.NewFromInt(amount),
		"partial refund", "buyer-1", time.Now())
	require.NoError(t, err)

	switch status {
	case refund.Requested:
	case refund.Approved:
		require.NoError(t, r.AdvanceTo(refund.Approved, time.Now()))
	case refund.Processing:
		require.NoError(t, r.AdvanceTo(refund.Approved, time.Now()))
		require.NoError(t, r.AdvanceTo(refund.Processing, time.Now()))
	case refund.Completed:
		require.NoError(t, r.AdvanceTo(refund.Approved, time.Now()))
		require.NoError(t, r.AdvanceTo(refund.Processing, time.Now()))
		require.NoError(t, r.AdvanceTo(refund.Completed, time.Now()))
	case refund.Failed:
		require.NoError(t, r.AdvanceTo(refund.Approved, time.Now()))
		require.NoError(t, r.AdvanceTo(refund.Processing, time.Now()))
		require.NoError(t, r.AdvanceTo(refund.Failed, time.Now()))
	case refund.Cancelled:
		require.NoError(t, r.AdvanceTo(refund.Cancelled, time.Now()))
	default:
		t.Fatalf("unreachable status %s", status)
	}
	return r
}

func TestRefundPolicy_Remaining(t *testing.T) {
	policy := services.NewRefundPolicy()

	t.Run("empty ledger leaves the full total", func(t *testing.T) {
		o := newOrderWithTotal(t, 100000)

		remaining, err := policy.Remaining(o, nil)

		require.NoError(t, err)
		assert.True(t, remaining.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("only approved and completed refunds consume the cap", func(t *testing.T) {
		o := newOrderWithTotal(t, 100000)
		ledger := []*refund.Refund{
			newRefundFor(t, o, 30000, refund.Completed),
			newRefundFor(t, o, 20000, refund.Approved),
			newRefundFor(t, o, 40000, refund.Requested),
			newRefundFor(t, o, 40000, refund.Cancelled),
			newRefundFor(t, o, 40000, refund.Failed),
		}

		remaining, err := policy.Remaining(o, ledger)

		require.NoError(t, err)
		assert.True(t, remaining.Equal(decimal.NewFromInt(50000)), remaining.String())
	})
}

func TestRefundPolicy_Authorize(t *testing.T) {
	policy := services.NewRefundPolicy()

	t.Run("allows a refund up to the exact remainder", func(t *testing.T) {
		o := newOrderWithTotal(t, 100000)
		ledger := []*refund.Refund{newRefundFor(t, o, 60000, refund.Approved)}

		require.NoError(t, policy.Authorize(o, ledger, newRefundFor(t, o, 40000, refund.Requested)))
	})

	t.Run("rejects the crossing approval", func(t *testing.T) {
		o := newOrderWithTotal(t, 100000)
		ledger := []*refund.Refund{newRefundFor(t, o, 60000, refund.Approved)}

		err := policy.Authorize(o, ledger, newRefundFor(t, o, 40001, refund.Requested))

		require.ErrorIs(t, err, refund.ErrExceedsOrderTotal)
	})

	t.Run("random partial refunds never cross the total", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(20260825))

		for i := 0; i < 50; i++ {
			total := int64(10000 + rnd.Intn(1000000))
			o := newOrderWithTotal(t, total)

			var ledger []*refund.Refund
			consumed := int64(0)
			for consumed < total {
				amount := int64(1 + rnd.Intn(int(total/3)+1))
				candidate := newRefundFor(t, o, amount, refund.Requested)

				err := policy.Authorize(o, ledger, candidate)
				if consumed+amount > total {
					require.ErrorIs(t, err, refund.ErrExceedsOrderTotal)
					break
				}

				require.NoError(t, err)
				require.NoError(t, candidate.AdvanceTo(refund.Approved, time.Now()))
				ledger = append(ledger, candidate)
				consumed += amount
			}
		}
	})
}
