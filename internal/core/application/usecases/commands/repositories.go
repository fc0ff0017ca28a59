// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// TrackingRepoFactory provides access to the tracking event store within a transaction.
	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	// DisputeRepoFactory provides access to the dispute repository within a transaction.
	DisputeRepoFactory interface {
		DisputeRepository() ports.DisputeRepository
	}

	// RefundRepoFactory provides access to the refund ledger within a transaction.
	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
	}

	// OrderUoW manages transactions for order workflow operations. Tracking
	// events ride the same transaction as the order mutation, so append
	// order always equals transition order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DisputeUoW manages transactions for dispute operations. The order
	// repository is read-only here; disputes never mutate the order.
	DisputeUoW interface {
		TxManager
		OrderRepoFactory
		DisputeRepoFactory
		TrackingRepoFactory
	}

	// DisputeUoWFactory creates new dispute unit of work instances.
	DisputeUoWFactory interface {
		Create() DisputeUoW
	}

	// RefundUoW manages transactions for refund operations. The full refund
	// ledger of the order is loaded inside the transaction so the cumulative
	// cap check sees every sibling refund.
	RefundUoW interface {
		TxManager
		OrderRepoFactory
		RefundRepoFactory
		TrackingRepoFactory
	}

	// RefundUoWFactory creates new refund unit of work instances.
	RefundUoWFactory interface {
		Create() RefundUoW
	}
)
