package image

import (
	"context"
	"fmt"
	"strings"

	"booth/internal/domain"
)

const (
	ProviderGemini    = "gemini"
	ProviderSynthetic = "synthetic"
)

// Transformer restyles one photo with one prompt and returns a single image
// as a data URI. Implementations perform exactly one attempt per call.
type Transformer interface {
	Transform(ctx context.Context, img domain.CanonicalImage, prompt string) (string, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, img domain.CanonicalImage, prompt string) (string, error)

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, img domain.CanonicalImage, prompt string) (string, error) {
	return f(ctx, img, prompt)
}

// NormalizeProvider sanitizes the configured provider name.
func NormalizeProvider(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderGemini, "gemini-2.5-flash-image":
		return ProviderGemini, nil
	case ProviderSynthetic:
		return ProviderSynthetic, nil
	default:
		return "", fmt.Errorf("%w: unsupported image provider %q", domain.ErrConfiguration, name)
	}
}
