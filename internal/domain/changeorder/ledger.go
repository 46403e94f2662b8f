package changeorder

import (
	"fmt"
	"time"
)

// SignedAmount returns +Amount for positive orders and -Amount for negative ones.
func (c ChangeOrder) SignedAmount() float64 {
	if c.Type == TypeNegative {
		return -c.Amount
	}
	return c.Amount
}

// ApprovedTotal folds the approved change orders into a signed total.
// Pending and rejected orders are ignored, and the result does not depend
// on the order of the input.
func ApprovedTotal(orders []ChangeOrder) float64 {
	var total float64
	for _, order := range orders {
		if order.Status != StatusApproved {
			continue
		}
		total += order.SignedAmount()
	}
	return total
}

// ValidateTransition checks a status change. Pending is the only state that
// may move, and only to approved or rejected.
func ValidateTransition(from, to Status) error {
	if from != StatusPending {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}
	if to != StatusApproved && to != StatusRejected {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Approve returns a copy of c moved to approved and stamped with approver and time.
// c itself is never modified.
func (c ChangeOrder) Approve(by string, at time.Time) (ChangeOrder, error) {
	if err := ValidateTransition(c.Status, StatusApproved); err != nil {
		return c, err
	}
	approver := by
	stamp := at
	c.Status = StatusApproved
	c.ApprovedBy = &approver
	c.ApprovedAt = &stamp
	c.UpdatedAt = at
	return c, nil
}

// Reject returns a copy of c moved to rejected.
func (c ChangeOrder) Reject(at time.Time) (ChangeOrder, error) {
	if err := ValidateTransition(c.Status, StatusRejected); err != nil {
		return c, err
	}
	c.Status = StatusRejected
	c.UpdatedAt = at
	return c, nil
}
