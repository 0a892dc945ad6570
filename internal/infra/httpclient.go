package infra

import (
	"context"
	"net/http"
	"time"
)

// NewHTTPClient returns an outbound client bounded by timeout. A timeout of
// zero or less leaves requests bounded only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{Timeout: timeout}
}

// WithTimeout derives a context that expires after d, or one that is only
// cancellable when d is zero or less.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
