// Package payment provides the outbound payment gateway adapter. The logging
// implementation fabricates deterministic transaction references so the rest
// of the engine can be exercised end to end without a real processor.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
)

// LoggingGateway records refund initiations and mints local references.
type LoggingGateway struct {
	logger *slog.Logger
}

// NewLoggingGateway creates a gateway writing to the given logger.
func NewLoggingGateway(logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{
		logger: logger.With("component", "payment_gateway"),
	}
}

// InitiateRefund acknowledges the refund and returns a transaction reference
// derived from the refund identity, so retries produce the same reference.
func (g *LoggingGateway) InitiateRefund(
	ctx context.Context,
	orderID kernel.UUID,
	refundID kernel.UUID,
) (string, error) {
	reference := fmt.Sprintf("gw-%s", refundID.String()[:8])
	g.logger.InfoContext(ctx, "refund initiated",
		"order_id", orderID.String(),
		"refund_id", refundID.String(),
		"reference", reference,
	)
	return reference, nil
}
