package image

import (
	"context"

	"booth/internal/domain"
	"booth/internal/providers/genai"
)

// GeminiTransformer routes transformations to the Gemini image model.
type GeminiTransformer struct {
	client *genai.Client
}

func NewGeminiTransformer(client *genai.Client) *GeminiTransformer {
	return &GeminiTransformer{client: client}
}

func (g *GeminiTransformer) Transform(ctx context.Context, img domain.CanonicalImage, prompt string) (string, error) {
	return g.client.TransformImage(ctx, img, prompt)
}

func (g *GeminiTransformer) String() string {
	return g.client.Model()
}

var _ Transformer = (*GeminiTransformer)(nil)
