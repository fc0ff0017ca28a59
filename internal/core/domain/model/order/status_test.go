package order_test

import (
	"fmt"
	"testing"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.PendingPayment,
		order.Paid,
		order.Processing,
		order.Shipped,
		order.InTransit,
		order.Delivered,
		order.Completed,
		order.Cancelled,
		order.Returned,
		order.Refunded,
	}
}

// legalTransitions is the reference adjacency list the implementation must
// match pair for pair.
func legalTransitions() map[order.Status][]order.Status {
	return map[order.Status][]order.Status{
		order.PendingPayment: {order.Paid, order.Cancelled},
		order.Paid:           {order.Processing, order.Cancelled},
		order.Processing:     {order.Shipped, order.Cancelled},
		order.Shipped:        {order.InTransit, order.Cancelled},
		order.InTransit:      {order.Delivered, order.Cancelled},
		order.Delivered:      {order.Completed, order.Returned, order.Refunded},
		order.Returned:       {order.Refunded},
	}
}

func TestStatus_Constants(t *testing.T) {
	t.Run("should have distinct values", func(t *testing.T) {
		seen := make(map[order.Status]bool)
		for _, status := range allStatuses() {
			assert.False(t, seen[status], "duplicate status value %d", int(status))
			seen[status] = true
		}
	})

	t.Run("zero value is Unknown", func(t *testing.T) {
		var status order.Status
		assert.Equal(t, order.Unknown, status)
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate all defined statuses", func(t *testing.T) {
		for _, status := range allStatuses() {
			t.Run(status.String(), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out-of-range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(11), order.Status(100)} {
			t.Run(fmt.Sprintf("value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			})
		}
	})
}

func TestStatus_CanTransitionTo_MatchesAdjacencyTable(t *testing.T) {
	legal := legalTransitions()

	for _, from := range allStatuses() {
		allowed := make(map[order.Status]bool)
		for _, to := range legal[from] {
			allowed[to] = true
		}

		for _, to := range allStatuses() {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				assert.Equal(t, allowed[to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestStatus_CanTransitionTo_IsReferentiallyTransparent(t *testing.T) {
	// Same inputs, same answer, regardless of how often it is asked.
	for range 3 {
		assert.True(t, order.PendingPayment.CanTransitionTo(order.Paid))
		assert.False(t, order.Delivered.CanTransitionTo(order.Processing))
	}
}

func TestStatus_TerminalStates(t *testing.T) {
	terminals := []order.Status{order.Completed, order.Cancelled, order.Refunded}

	for _, terminal := range terminals {
		t.Run(terminal.String(), func(t *testing.T) {
			assert.True(t, terminal.IsTerminal())

			for _, target := range allStatuses() {
				assert.False(t, terminal.CanTransitionTo(target),
					"%s must not transition to %s", terminal, target)
			}
		})
	}

	t.Run("Returned is not terminal", func(t *testing.T) {
		assert.False(t, order.Returned.IsTerminal())
		assert.True(t, order.Returned.CanTransitionTo(order.Refunded))
	})
}

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("legal transition returns target", func(t *testing.T) {
		next, err := order.Paid.TransitionTo(order.Processing)

		require.NoError(t, err)
		assert.Equal(t, order.Processing, next)
	})

	t.Run("illegal transition carries both states", func(t *testing.T) {
		_, err := order.Delivered.TransitionTo(order.Processing)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)

		var transitionErr *order.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, order.Delivered, transitionErr.Current)
		assert.Equal(t, order.Processing, transitionErr.Requested)
		assert.Contains(t, err.Error(), "Delivered")
		assert.Contains(t, err.Error(), "Processing")
	})

	t.Run("skipping a main path state is illegal", func(t *testing.T) {
		_, err := order.Paid.TransitionTo(order.Shipped)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("invalid target is rejected before the table lookup", func(t *testing.T) {
		_, err := order.Paid.TransitionTo(order.Unknown)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PendingPayment", order.PendingPayment.String())
	assert.Equal(t, "InTransit", order.InTransit.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}
