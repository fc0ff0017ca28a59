// Package jobs provides scheduled background tasks for the order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order lifecycle.
//
// # Available Jobs
//
// 1. PaymentTimeoutJob - Runs every minute to cancel orders stuck in PendingPayment beyond the timeout
// 2. RefundSettlementJob - Runs every minute to hand approved refunds to the payment gateway
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(staleQuery, cancelHandler, refundsQuery, advanceRefundHandler, timeout, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use the cron expression "0 * * * * *" which means they run at the
// top of every minute. Timeouts and settlements tolerate this granularity.
//
// # Error Handling
//
// - The timeout job treats lost optimistic-concurrency races as expected (a
//   payment landed between the read and the cancel) and moves on
// - The settlement job logs per-refund failures and continues with the rest
// - Failed job starts will stop any already running jobs
package jobs
