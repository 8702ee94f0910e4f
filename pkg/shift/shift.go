// Package shift owns the claim/cancel lifecycle of shift records.
package shift

import (
	"time"
)

// Shift is the persisted shift record. The lifecycle state is not stored
// separately: it is fully derived from the two nullable fields.
type Shift struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	WorkplaceID uint64     `gorm:"index;not null" json:"workplaceId"`
	WorkerID    *uint64    `gorm:"index" json:"workerId"`
	CancelledAt *time.Time `json:"cancelledAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// State is the explicit lifecycle state of a shift.
type State string

const (
	// StateUnclaimed: no worker assigned, never cancelled.
	StateUnclaimed State = "unclaimed"

	// StateClaimed: a worker is assigned. Worker presence alone decides
	// claimed-ness.
	StateClaimed State = "claimed"

	// StateCancelled: no worker assigned and a cancellation is recorded.
	// Not terminal; a cancelled shift can be claimed again.
	StateCancelled State = "cancelled"
)

// State derives the lifecycle state from the record's nullable fields.
func (s *Shift) State() State {
	switch {
	case s.WorkerID != nil:
		return StateClaimed
	case s.CancelledAt != nil:
		return StateCancelled
	default:
		return StateUnclaimed
	}
}

// Transition table. Claim is allowed from Unclaimed and Cancelled (a
// re-claim clears the cancellation), cancel only from Claimed.

// CanClaim reports whether a claim is allowed from s.
func (s State) CanClaim() bool {
	switch s {
	case StateUnclaimed, StateCancelled:
		return true
	case StateClaimed:
		return false
	}
	return false
}

// CanCancel reports whether a cancel is allowed from s.
func (s State) CanCancel() bool {
	return s == StateClaimed
}
