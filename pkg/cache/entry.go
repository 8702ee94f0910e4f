// Package cache provides a Redis-backed cache for computed report output.
package cache

import (
	"time"
)

// Entry is a cached report payload.
type Entry struct {
	// Data is the serialized report output
	Data []byte `json:"data"`

	// ComputedAt is when the report was computed
	ComputedAt time.Time `json:"computed_at"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(data []byte, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:       data,
		ComputedAt: now,
		Expires:    now.Add(ttl),
	}
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
