package models

import "time"

// CreateLinkResponse represents the response after creating a short URL
type CreateLinkResponse struct {
	ShortID   string     `json:"short_id"`
	ShortURL  string     `json:"short_url"` // Full short URL (base URL + /r/ + code)
	TargetURL string     `json:"target_url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ResolveResponse represents the response for GET /api/resolve/:code
type ResolveResponse struct {
	URL     string `json:"url"`
	ShortID string `json:"short_id"`
}

// LinkStatsResponse represents the response for GET /stats/:code
type LinkStatsResponse struct {
	ShortID             string     `json:"short_id"`
	TargetURL           string     `json:"target_url"`
	HitCount            int64      `json:"hit_count"`
	CreatedAt           time.Time  `json:"created_at"`
	ExpiresAt           *time.Time `json:"expires_at"`
	Expired             bool       `json:"expired"`
	TTLSecondsRemaining *int64     `json:"ttl_seconds_remaining"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
