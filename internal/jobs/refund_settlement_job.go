package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/refund"

	"github.com/robfig/cron/v3"
)

// RefundSettlementJob drives approved refunds to the payment gateway. Runs
// every minute; each approved refund is advanced to Processing through the
// ordinary refund path, which calls the gateway and records the reference.
type RefundSettlementJob struct {
	refundsQuery   queries.GetRefundsInStatusQueryHandler
	advanceHandler commands.AdvanceRefundCommandHandler
	cron           *cron.Cron
	logger         *slog.Logger
}

// NewRefundSettlementJob creates a job settling approved refunds.
func NewRefundSettlementJob(
	refundsQuery queries.GetRefundsInStatusQueryHandler,
	advanceHandler commands.AdvanceRefundCommandHandler,
	logger *slog.Logger,
) *RefundSettlementJob {
	return &RefundSettlementJob{
		refundsQuery:   refundsQuery,
		advanceHandler: advanceHandler,
		cron:           cron.New(cron.WithSeconds()),
		logger:         logger.With("component", "refund_settlement_job"),
	}
}

// Start begins the refund settlement job to run every minute.
func (j *RefundSettlementJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Refund settlement job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Refund settlement job started (running every minute)")
	return nil
}

// Stop stops the refund settlement job.
func (j *RefundSettlementJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Refund settlement job stopped")
}

func (j *RefundSettlementJob) run(ctx context.Context) error {
	query, err := queries.NewGetRefundsInStatusQuery(refund.Approved)
	if err != nil {
		return err
	}

	approved, err := j.refundsQuery.Handle(ctx, query)
	if err != nil {
		return err
	}

	for _, response := range approved {
		cmd, cmdErr := commands.NewAdvanceRefundCommand(response.ID, refund.Processing, "system")
		if cmdErr != nil {
			return cmdErr
		}

		if advanceErr := j.advanceHandler.Handle(ctx, cmd); advanceErr != nil {
			j.logger.ErrorContext(ctx, "Failed to settle refund",
				"refund_id", response.ID.String(), "error", advanceErr)
		}
	}

	return nil
}
