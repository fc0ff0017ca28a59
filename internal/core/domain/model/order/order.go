package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrNoLineItems is returned when creating an order with an empty item list.
	ErrNoLineItems = errors.New("order must contain at least one line item")

	// ErrBuyerRefIsRequired is returned when creating an order without a buyer reference.
	ErrBuyerRefIsRequired = errors.New("buyer reference is required")
)

// Timestamps holds the wall-clock time of each major transition. Every field
// is set exactly once, on first entry into the corresponding state, and the
// set fields are non-decreasing in the order the states were entered.
type Timestamps struct {
	PaidAt              *time.Time
	ProcessingStartedAt *time.Time
	ShippedAt           *time.Time
	InTransitAt         *time.Time
	DeliveredAt         *time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	ReturnedAt          *time.Time
	RefundedAt          *time.Time
}

// Order is the aggregate root for the order lifecycle. It is the single
// holder of the workflow state, the transition timestamps, the monetary
// breakdown, the delivery attempt history, and the last known location.
//
// Invariants:
//   - At least one validated line item; subtotal is their sum
//   - Commission never exceeds the subtotal; all monetary fields non-negative
//   - Workflow state changes only through Advance, which consults the
//     transition table
//   - Each transition timestamp is stamped exactly once
//   - Delivery attempt numbers increase strictly from 1, capped at
//     MaxDeliveryAttempts
//
// Mutation must go through a single writer at a time: the aggregate carries a
// version for optimistic concurrency at the persistence layer.
type Order struct {
	id          kernel.UUID
	orderNumber string
	buyerRef    string
	items       []LineItem

	subtotal       decimal.Decimal
	tax            decimal.Decimal
	discount       decimal.Decimal
	commissionRate decimal.Decimal
	commission     decimal.Decimal
	vendorPayout   decimal.Decimal

	status     Status
	createdAt  time.Time
	timestamps Timestamps

	currentLocation *kernel.GeoPoint
	attempts        []DeliveryAttempt

	// version is the optimistic-concurrency token loaded from persistence.
	version int

	guard guard.ConstructorGuard
}

// NewOrder creates an order in PendingPayment from a non-empty list of line
// items. The subtotal is computed from the items; commission and vendor
// payout are derived from the commission rate.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: human-readable immutable number, see NewOrderNumber
//   - buyerRef: opaque reference to the buying principal (must be non-empty)
//   - items: at least one validated line item
//   - tax, discount: non-negative adjustments to the total
//   - commissionRate: marketplace share of the subtotal, within [0..1]
//   - now: creation instant
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	buyerRef string,
	items []LineItem,
	tax decimal.Decimal,
	discount decimal.Decimal,
	commissionRate decimal.Decimal,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    PendingPayment,
		createdAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setBuyerRef(buyerRef),
		o.setItems(items),
		o.setAdjustments(tax, discount),
		o.setCommissionRate(commissionRate),
	); err != nil {
		return nil, err
	}

	if err := o.computeMoney(); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation-time side effects. The stored monetary fields are recomputed from
// the item list and the rate to guard against drifted rows.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	buyerRef string,
	items []LineItem,
	tax decimal.Decimal,
	discount decimal.Decimal,
	commissionRate decimal.Decimal,
	status Status,
	createdAt time.Time,
	timestamps Timestamps,
	currentLocation *kernel.GeoPoint,
	attempts []DeliveryAttempt,
	version int,
) (*Order, error) {
	o, err := NewOrder(id, orderNumber, buyerRef, items, tax, discount, commissionRate, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version",
			fmt.Errorf("%d is not a positive version", version))
	}

	o.status = status
	o.timestamps = timestamps
	o.currentLocation = currentLocation
	o.attempts = append([]DeliveryAttempt(nil), attempts...)
	o.version = version
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable immutable order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// BuyerRef returns the reference to the buying principal.
func (o *Order) BuyerRef() string {
	return o.buyerRef
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// Subtotal returns the sum of the line item subtotals.
func (o *Order) Subtotal() decimal.Decimal {
	return o.subtotal
}

// Tax returns the tax amount.
func (o *Order) Tax() decimal.Decimal {
	return o.tax
}

// Discount returns the discount amount.
func (o *Order) Discount() decimal.Decimal {
	return o.discount
}

// CommissionRate returns the marketplace share of the subtotal, within [0..1].
func (o *Order) CommissionRate() decimal.Decimal {
	return o.commissionRate
}

// Commission returns the computed marketplace commission.
// Never exceeds the subtotal.
func (o *Order) Commission() decimal.Decimal {
	return o.commission
}

// VendorPayout returns the computed amount owed to the vendor.
func (o *Order) VendorPayout() decimal.Decimal {
	return o.vendorPayout
}

// TotalAmount returns subtotal + tax - discount, the amount the buyer pays.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.subtotal.Add(o.tax).Sub(o.discount)
}

// Status returns the current workflow state.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the creation instant.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Timestamps returns the transition timestamps recorded so far.
func (o *Order) Timestamps() Timestamps {
	return o.timestamps
}

// CurrentLocation returns the latest known position, or nil if the order has
// never reported one. Mirrors the most recent geo-bearing tracking event.
func (o *Order) CurrentLocation() *kernel.GeoPoint {
	return o.currentLocation
}

// DeliveryAttempts returns a copy of the recorded delivery attempts.
func (o *Order) DeliveryAttempts() []DeliveryAttempt {
	return append([]DeliveryAttempt(nil), o.attempts...)
}

// Version returns the optimistic-concurrency token loaded from persistence.
func (o *Order) Version() int {
	return o.version
}

// Advance moves the order to the target state after consulting the workflow
// table, stamping the state's timestamp on first entry.
//
// A request for the state the order is already in is treated as a retried
// call and succeeds without changing anything; the returned bool is false so
// the caller can suppress duplicate side effects (tracking events,
// notifications). Any other illegal pair fails with *InvalidTransitionError
// and the order is left unchanged.
func (o *Order) Advance(target Status, now time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	if target == o.status {
		// Idempotent retry of the same transition.
		return false, nil
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return false, err
	}

	o.status = newStatus
	o.stampTimestamp(newStatus, now)
	return true, nil
}

// RecordDeliveryAttempt appends the next delivery attempt.
//
// On AttemptSuccessful the order advances to Delivered through the ordinary
// transition path. On AttemptFailed a next attempt is scheduled
// RedeliveryDelay later only while the attempt number is below
// MaxDeliveryAttempts; at the cap the order stays in its current state for
// manual intervention. Recording an attempt past the cap fails with
// ErrDeliveryAttemptsExhausted.
func (o *Order) RecordDeliveryAttempt(
	status AttemptStatus,
	failureReason string,
	evidenceURIs []string,
	now time.Time,
) (DeliveryAttempt, error) {
	if err := o.Validate(); err != nil {
		return DeliveryAttempt{}, err
	}
	if err := status.Validate(); err != nil {
		return DeliveryAttempt{}, err
	}
	if len(o.attempts) >= MaxDeliveryAttempts {
		return DeliveryAttempt{}, ErrDeliveryAttemptsExhausted
	}

	attemptNumber := len(o.attempts) + 1

	var nextAttemptAt *time.Time
	if status == AttemptFailed && attemptNumber < MaxDeliveryAttempts {
		next := now.Add(RedeliveryDelay)
		nextAttemptAt = &next
	}

	if status == AttemptSuccessful {
		if _, err := o.Advance(Delivered, now); err != nil {
			return DeliveryAttempt{}, err
		}
	}

	attempt := newDeliveryAttempt(attemptNumber, status, failureReason, evidenceURIs, now, nextAttemptAt)
	o.attempts = append(o.attempts, attempt)
	return attempt, nil
}

// NextDeliveryAttemptAt returns the pending redelivery time, if the latest
// attempt failed below the cap. Nil otherwise.
func (o *Order) NextDeliveryAttemptAt() *time.Time {
	if len(o.attempts) == 0 {
		return nil
	}
	last := o.attempts[len(o.attempts)-1]
	if last.Status() != AttemptFailed {
		return nil
	}
	return last.NextAttemptAt()
}

// SetCurrentLocation updates the last known position. Called by the engine
// when a geo-bearing tracking event is appended, keeping the mirror in sync
// with the ledger.
func (o *Order) SetCurrentLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.currentLocation = &point
	return nil
}

// stampTimestamp records the first entry into a state. Re-entry (possible
// only for Returned -> Refunded style branches revisited via restore) never
// overwrites an existing stamp.
func (o *Order) stampTimestamp(status Status, now time.Time) {
	stamp := func(field **time.Time) {
		if *field == nil {
			t := now
			*field = &t
		}
	}

	switch status {
	case Paid:
		stamp(&o.timestamps.PaidAt)
	case Processing:
		stamp(&o.timestamps.ProcessingStartedAt)
	case Shipped:
		stamp(&o.timestamps.ShippedAt)
	case InTransit:
		stamp(&o.timestamps.InTransitAt)
	case Delivered:
		stamp(&o.timestamps.DeliveredAt)
	case Completed:
		stamp(&o.timestamps.CompletedAt)
	case Cancelled:
		stamp(&o.timestamps.CancelledAt)
	case Returned:
		stamp(&o.timestamps.ReturnedAt)
	case Refunded:
		stamp(&o.timestamps.RefundedAt)
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setBuyerRef(buyerRef string) error {
	if strings.TrimSpace(buyerRef) == "" {
		return ErrBuyerRefIsRequired
	}
	o.buyerRef = buyerRef
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]LineItem(nil), items...)
	return nil
}

func (o *Order) setAdjustments(tax decimal.Decimal, discount decimal.Decimal) error {
	if tax.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("tax",
			fmt.Errorf("%s is negative", tax))
	}
	if discount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("%s is negative", discount))
	}
	o.tax = tax
	o.discount = discount
	return nil
}

func (o *Order) setCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError("commission rate", rate.String(), "0", "1")
	}
	o.commissionRate = rate
	return nil
}

// computeMoney derives subtotal, commission, and vendor payout from the item
// list and the rate, validating the non-negativity invariants.
func (o *Order) computeMoney() error {
	subtotal := decimal.Zero
	for _, item := range o.items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	o.subtotal = subtotal

	total := subtotal.Add(o.tax).Sub(o.discount)
	if total.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("discount %s exceeds subtotal plus tax", o.discount))
	}

	o.commission = subtotal.Mul(o.commissionRate).Round(2)
	o.vendorPayout = total.Sub(o.commission)
	if o.vendorPayout.IsNegative() {
		o.vendorPayout = decimal.Zero
	}
	return nil
}
