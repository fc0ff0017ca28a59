package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrBuyerRefIsRequired = errors.New("buyer ref is required")
	ErrItemsAreRequired   = errors.New("at least one line item is required")
)

// CreateOrderCommand represents a request to register a new marketplace order.
// Carries the validated line items together with the monetary adjustments
// applied at checkout.
//
// Example:
//
//	item, _ := order.NewLineItem(productID, 2, decimal.NewFromInt(25000))
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), "buyer-42", []order.LineItem{item},
//	    decimal.NewFromInt(1900), decimal.Zero, decimal.NewFromFloat(0.1), false)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, inventory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	buyerRef       string
	items          []order.LineItem
	tax            decimal.Decimal
	discount       decimal.Decimal
	commissionRate decimal.Decimal
	autoProcess    bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order. The items
// must be constructed line item values; monetary validation beyond that is
// left to the order aggregate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyerRef string,
	items []order.LineItem,
	tax decimal.Decimal,
	discount decimal.Decimal,
	commissionRate decimal.Decimal,
	autoProcess bool,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		tax:            tax,
		discount:       discount,
		commissionRate: commissionRate,
		autoProcess:    autoProcess,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setBuyerRef(buyerRef),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerRef returns the opaque reference to the buying principal.
func (c CreateOrderCommand) BuyerRef() string {
	return c.buyerRef
}

// Items returns the line items of the order.
func (c CreateOrderCommand) Items() []order.LineItem {
	return c.items
}

// Tax returns the tax amount applied at checkout.
func (c CreateOrderCommand) Tax() decimal.Decimal {
	return c.tax
}

// Discount returns the discount amount applied at checkout.
func (c CreateOrderCommand) Discount() decimal.Decimal {
	return c.discount
}

// CommissionRate returns the marketplace commission rate.
func (c CreateOrderCommand) CommissionRate() decimal.Decimal {
	return c.commissionRate
}

// AutoProcess reports whether the order should attempt the Paid transition
// immediately after creation.
func (c CreateOrderCommand) AutoProcess() bool {
	return c.autoProcess
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyerRef(buyerRef string) error {
	if buyerRef == "" {
		return ErrBuyerRefIsRequired
	}

	c.buyerRef = buyerRef
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = items
	return nil
}
