// Package notify provides the outbound notification adapter. The current
// implementation writes structured log lines; a message broker can replace it
// behind the same port without touching the use cases.
package notify

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// SlogNotifier logs workflow state changes.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{
		logger: logger.With("component", "notifier"),
	}
}

// NotifyStateChange emits one log line per transition. Fire-and-forget by
// contract: there is nothing to fail here, and callers never check.
func (n *SlogNotifier) NotifyStateChange(
	ctx context.Context,
	orderID kernel.UUID,
	from order.Status,
	to order.Status,
) {
	n.logger.InfoContext(ctx, "order state changed",
		"order_id", orderID.String(),
		"from", from.String(),
		"to", to.String(),
	)
}
