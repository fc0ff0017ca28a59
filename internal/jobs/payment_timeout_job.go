package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// PaymentTimeoutJob cancels orders stuck in PendingPayment beyond the
// configured timeout. Runs every minute; each stale order is cancelled
// through the ordinary cancellation path, so refund signalling and tracking
// events behave exactly as for a manual cancel.
type PaymentTimeoutJob struct {
	staleQuery    queries.GetStalePendingPaymentQueryHandler
	cancelHandler commands.CancelOrderCommandHandler
	timeout       time.Duration
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewPaymentTimeoutJob creates a job cancelling unpaid orders older than timeout.
func NewPaymentTimeoutJob(
	staleQuery queries.GetStalePendingPaymentQueryHandler,
	cancelHandler commands.CancelOrderCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *PaymentTimeoutJob {
	return &PaymentTimeoutJob{
		staleQuery:    staleQuery,
		cancelHandler: cancelHandler,
		timeout:       timeout,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger.With("component", "payment_timeout_job"),
	}
}

// Start begins the payment timeout job to run every minute.
func (j *PaymentTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Payment timeout job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment timeout job started (running every minute)")
	return nil
}

// Stop stops the payment timeout job.
func (j *PaymentTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment timeout job stopped")
}

func (j *PaymentTimeoutJob) run(ctx context.Context) error {
	query, err := queries.NewGetStalePendingPaymentQuery(time.Now().Add(-j.timeout))
	if err != nil {
		return err
	}

	stale, err := j.staleQuery.Handle(ctx, query)
	if err != nil {
		return err
	}

	for _, response := range stale {
		cmd, cmdErr := commands.NewCancelOrderCommand(response.ID, "payment timeout", "system")
		if cmdErr != nil {
			return cmdErr
		}

		if cancelErr := j.cancelHandler.Handle(ctx, cmd); cancelErr != nil {
			// A concurrent payment or cancel between the read and the write
			// is an expected race, not a job failure.
			if errors.Is(cancelErr, errs.ErrVersionIsInvalid) || errors.Is(cancelErr, errs.ErrObjectNotFound) {
				continue
			}
			j.logger.ErrorContext(ctx, "Failed to cancel stale order",
				"order_id", response.ID.String(), "error", cancelErr)
		}
	}

	return nil
}
