package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	paymentTimeoutJob   *PaymentTimeoutJob
	refundSettlementJob *RefundSettlementJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes query and command handlers as dependencies to wire up the job execution.
func NewJobManager(
	staleQuery queries.GetStalePendingPaymentQueryHandler,
	cancelHandler commands.CancelOrderCommandHandler,
	refundsQuery queries.GetRefundsInStatusQueryHandler,
	advanceRefundHandler commands.AdvanceRefundCommandHandler,
	paymentTimeout time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		paymentTimeoutJob:   NewPaymentTimeoutJob(staleQuery, cancelHandler, paymentTimeout, logger),
		refundSettlementJob: NewRefundSettlementJob(refundsQuery, advanceRefundHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.paymentTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start payment timeout job: %w", err)
	}

	if err := jm.refundSettlementJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.paymentTimeoutJob.Stop()
		return fmt.Errorf("failed to start refund settlement job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.paymentTimeoutJob.Stop()
	jm.refundSettlementJob.Stop()
}
