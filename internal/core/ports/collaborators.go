package ports

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// ErrInsufficientStock is the sentinel for failed inventory reservations.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError identifies the product that could not be reserved.
type InsufficientStockError struct {
	ProductID kernel.UUID
}

func NewInsufficientStockError(productID kernel.UUID) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s", ErrInsufficientStock, e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// InventoryReservation holds and releases stock for order line items.
type InventoryReservation interface {
	// Reserve decrements available stock for a product. Returns an
	// *InsufficientStockError when not enough units are available.
	Reserve(ctx context.Context, productID kernel.UUID, quantity int) error

	// Release returns previously reserved units to the pool. Used as
	// compensation when a later reservation of the same order fails.
	Release(ctx context.Context, productID kernel.UUID, quantity int) error
}

// PaymentGateway moves money for refunds.
type PaymentGateway interface {
	// InitiateRefund asks the gateway to return the given order's money and
	// returns the gateway's transaction reference.
	InitiateRefund(ctx context.Context, orderID kernel.UUID, refundID kernel.UUID) (string, error)
}

// Notifier tells interested parties about workflow state changes.
// Implementations are fire-and-forget; a notification failure never fails
// the command that triggered it.
type Notifier interface {
	NotifyStateChange(ctx context.Context, orderID kernel.UUID, from order.Status, to order.Status)
}

// Geocoder resolves coordinates to a human-readable address.
type Geocoder interface {
	// ReverseGeocode returns an address for the point. An empty string with
	// a nil error means the geocoder had no answer.
	ReverseGeocode(ctx context.Context, point kernel.GeoPoint) (string, error)
}

// Clearance is the privilege level of an acting principal.
type Clearance int

const (
	// ClearanceNone means the actor is unknown to the authorizer.
	ClearanceNone Clearance = iota

	// ClearanceOperator allows single-order mutations.
	ClearanceOperator

	// ClearanceAdmin additionally allows bulk operations.
	ClearanceAdmin
)

// Authorizer resolves the clearance of an acting principal.
type Authorizer interface {
	ClearanceFor(actor string) Clearance
}
