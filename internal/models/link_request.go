package models

// CreateLinkRequest represents the request body for POST /api/shorten.
// JSON and form bodies are both accepted.
type CreateLinkRequest struct {
	TargetURL string  `json:"target_url" form:"target_url" binding:"required"`
	TTL       *int64  `json:"ttl,omitempty" form:"ttl"`   // Seconds until expiry; omitted means never
	Code      *string `json:"code,omitempty" form:"code"` // Optional custom short code
}
