package domain

import "time"

// GenerationResult holds one data URI per style, in catalog order.
type GenerationResult []string

// CompositeArtifact is the finished, watermarked collage.
type CompositeArtifact struct {
	URL       string    `json:"-"`
	MediaType string    `json:"media_type"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// ShareLinkTTL is how long the anonymous host keeps uploads.
const ShareLinkTTL = 24 * time.Hour

// ShareLink is a time-limited direct download URL for an artifact.
type ShareLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
