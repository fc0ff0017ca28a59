package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrBulkApplyOrdersCommandIsNotConstructed = errors.New(
		"BulkApplyOrdersCommand must be created via NewBulkApplyOrdersCommand constructor",
	)
	ErrOrderIDsAreRequired = errors.New("at least one order id is required")
)

// BulkAction is the closed set of workflow actions a bulk operation may
// apply. Unknown actions are rejected at the boundary, before any order is
// touched.
type BulkAction int

const (
	// BulkActionUnknown represents an invalid or undefined action.
	BulkActionUnknown BulkAction = iota

	BulkActionMarkPaid
	BulkActionMarkProcessing
	BulkActionMarkShipped
	BulkActionMarkInTransit
	BulkActionMarkDelivered
	BulkActionMarkCompleted
	BulkActionCancel
)

func getBulkActionTargets() map[BulkAction]order.Status {
	return map[BulkAction]order.Status{
		BulkActionMarkPaid:       order.Paid,
		BulkActionMarkProcessing: order.Processing,
		BulkActionMarkShipped:    order.Shipped,
		BulkActionMarkInTransit:  order.InTransit,
		BulkActionMarkDelivered:  order.Delivered,
		BulkActionMarkCompleted:  order.Completed,
		BulkActionCancel:         order.Cancelled,
	}
}

func getBulkActionStrings() map[BulkAction]string {
	return map[BulkAction]string{
		BulkActionUnknown:        "unknown",
		BulkActionMarkPaid:       "mark_paid",
		BulkActionMarkProcessing: "mark_processing",
		BulkActionMarkShipped:    "mark_shipped",
		BulkActionMarkInTransit:  "mark_in_transit",
		BulkActionMarkDelivered:  "mark_delivered",
		BulkActionMarkCompleted:  "mark_completed",
		BulkActionCancel:         "cancel",
	}
}

// Validate checks if the action is a member of the closed set.
func (a BulkAction) Validate() error {
	if _, ok := getBulkActionTargets()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("bulk action is invalid",
			fmt.Errorf("%d is not a valid bulk action", a))
	}
	return nil
}

// String implements fmt.Stringer.
func (a BulkAction) String() string {
	if str, ok := getBulkActionStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// Target returns the workflow state the action drives orders to.
func (a BulkAction) Target() order.Status {
	return getBulkActionTargets()[a]
}

// BulkApplyOrdersCommand represents a request to apply one workflow action to
// a set of orders. Duplicate identifiers are collapsed so every order is
// processed at most once.
type BulkApplyOrdersCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	action   BulkAction
	actor    string

	guard guard.ConstructorGuard
}

// NewBulkApplyOrdersCommand creates a command to apply the action to every
// listed order.
func NewBulkApplyOrdersCommand(
	orderIDs []kernel.UUID,
	action BulkAction,
	actor string,
) (BulkApplyOrdersCommand, error) {
	cmd := BulkApplyOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderIDs(orderIDs),
		cmd.setAction(action),
		cmd.setActor(actor),
	); err != nil {
		return BulkApplyOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkApplyOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBulkApplyOrdersCommandIsNotConstructed)
}

// OrderIDs returns the deduplicated set of orders to mutate.
func (c BulkApplyOrdersCommand) OrderIDs() []kernel.UUID {
	return c.orderIDs
}

// Action returns the workflow action to apply.
func (c BulkApplyOrdersCommand) Action() BulkAction {
	return c.action
}

// Actor returns the principal requesting the bulk operation.
func (c BulkApplyOrdersCommand) Actor() string {
	return c.actor
}

func (c *BulkApplyOrdersCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrOrderIDsAreRequired
	}

	seen := make(map[kernel.UUID]bool, len(orderIDs))
	deduplicated := make([]kernel.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		deduplicated = append(deduplicated, id)
	}

	c.orderIDs = deduplicated
	return nil
}

func (c *BulkApplyOrdersCommand) setAction(action BulkAction) error {
	if err := action.Validate(); err != nil {
		return err
	}

	c.action = action
	return nil
}

func (c *BulkApplyOrdersCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
