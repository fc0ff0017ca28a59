package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via
// the NewLineItem constructor.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is a validated record of one purchased product within an order.
// It is an immutable value object; quantity and unit price are always positive.
type LineItem struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int
	unitPrice decimal.Decimal

	guard guard.ConstructorGuard
}

// NewLineItem creates a line item for productID with a positive quantity and
// a positive unit price.
func NewLineItem(productID kernel.UUID, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the line item was created through the constructor.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the purchased product's identifier.
func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the number of units purchased.
func (i LineItem) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i LineItem) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal returns unit price multiplied by quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%s is not greater than 0", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}
