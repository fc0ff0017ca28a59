// Package dispute provides the Dispute aggregate, side-state attached to an
// order. Disputes are lifecycled independently of the order workflow: one
// order may carry several disputes, one per distinct complaint, and a dispute
// advancing has no effect on the order's workflow state.
package dispute

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrDisputeIsNotConstructed is returned when a Dispute was not created
	// via NewDispute or RestoreDispute.
	ErrDisputeIsNotConstructed = errors.New("Dispute must be created via NewDispute or RestoreDispute")

	// ErrComplaintIsRequired is returned when opening a dispute with an
	// empty complaint.
	ErrComplaintIsRequired = errors.New("complaint is required")
)

// Dispute is a complaint filed against one order. It references the order by
// identifier and never owns it.
type Dispute struct {
	id         kernel.UUID
	orderID    kernel.UUID
	complaint  string
	openedBy   string
	status     Status
	resolution string
	openedAt   time.Time
	resolvedAt *time.Time

	guard guard.ConstructorGuard
}

// NewDispute opens a dispute against an order with a non-empty complaint.
func NewDispute(
	id kernel.UUID,
	orderID kernel.UUID,
	complaint string,
	openedBy string,
	now time.Time,
) (*Dispute, error) {
	d := &Dispute{
		status:   Open,
		openedAt: now,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setComplaint(complaint),
		d.setOpenedBy(openedBy),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDispute reconstructs a dispute from persistence.
func RestoreDispute(
	id kernel.UUID,
	orderID kernel.UUID,
	complaint string,
	openedBy string,
	status Status,
	resolution string,
	openedAt time.Time,
	resolvedAt *time.Time,
) (*Dispute, error) {
	d, err := NewDispute(id, orderID, complaint, openedBy, openedAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	d.status = status
	d.resolution = resolution
	d.resolvedAt = resolvedAt
	return d, nil
}

// Validate ensures the dispute was created through a constructor.
func (d *Dispute) Validate() error {
	if d == nil {
		return ErrDisputeIsNotConstructed
	}
	return d.guard.Validate(ErrDisputeIsNotConstructed)
}

// ID returns the dispute's unique identifier.
func (d *Dispute) ID() kernel.UUID {
	return d.id
}

// OrderID returns the identifier of the disputed order.
func (d *Dispute) OrderID() kernel.UUID {
	return d.orderID
}

// Complaint returns the buyer's complaint text.
func (d *Dispute) Complaint() string {
	return d.complaint
}

// OpenedBy returns the principal who filed the dispute.
func (d *Dispute) OpenedBy() string {
	return d.openedBy
}

// Status returns the dispute lifecycle state.
func (d *Dispute) Status() Status {
	return d.status
}

// Resolution returns the resolution text, empty until resolved.
func (d *Dispute) Resolution() string {
	return d.resolution
}

// OpenedAt returns when the dispute was filed.
func (d *Dispute) OpenedAt() time.Time {
	return d.openedAt
}

// ResolvedAt returns when the dispute was resolved, nil before that.
func (d *Dispute) ResolvedAt() *time.Time {
	return d.resolvedAt
}

// AdvanceTo moves the dispute along its machine. Entering Resolved requires
// a resolution text and stamps the resolution time once; the escalation
// bounce (Investigating -> Escalated -> Investigating) is permitted any
// number of times.
func (d *Dispute) AdvanceTo(target Status, resolution string, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}

	if newStatus == Resolved {
		if strings.TrimSpace(resolution) == "" {
			return errs.NewValueIsRequiredError("resolution")
		}
		d.resolution = resolution
		if d.resolvedAt == nil {
			t := now
			d.resolvedAt = &t
		}
	}

	d.status = newStatus
	return nil
}

func (d *Dispute) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Dispute) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	d.orderID = orderID
	return nil
}

func (d *Dispute) setComplaint(complaint string) error {
	if strings.TrimSpace(complaint) == "" {
		return ErrComplaintIsRequired
	}
	d.complaint = complaint
	return nil
}

func (d *Dispute) setOpenedBy(openedBy string) error {
	if openedBy == "" {
		return errs.NewValueIsRequiredError("opened by")
	}
	d.openedBy = openedBy
	return nil
}
