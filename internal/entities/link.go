package entities

import (
	"math"
	"time"
)

// Link represents a shortened URL in the links table
type Link struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	TargetURL string     `json:"target_url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"` // nil means the link never expires
	HitCount  int64      `json:"hit_count"`
}

// IsExpiredAt reports whether the link has lapsed at the given instant.
// A link expires exactly at ExpiresAt, not after it.
func (l *Link) IsExpiredAt(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}
	return !now.Before(*l.ExpiresAt)
}

// TTLSecondsRemainingAt returns the whole seconds left before expiry, clamped
// at zero, or nil when the link has no expiry.
func (l *Link) TTLSecondsRemainingAt(now time.Time) *int64 {
	if l.ExpiresAt == nil {
		return nil
	}
	seconds := int64(math.Floor(l.ExpiresAt.Sub(now).Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	return &seconds
}
