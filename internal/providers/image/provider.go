package image

import (
	"net/http"

	"booth/internal/infra"
	"booth/internal/providers/genai"
)

// Options carries what New needs to build any provider.
type Options struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// New builds the configured transformer.
func New(opts Options) (Transformer, error) {
	name, err := NormalizeProvider(opts.Provider)
	if err != nil {
		return nil, err
	}
	if name == ProviderSynthetic {
		return NewSynthetic(), nil
	}
	client := genai.NewClient(genai.Options{
		APIKey:     opts.APIKey,
		BaseURL:    opts.BaseURL,
		Model:      opts.Model,
		HTTPClient: opts.HTTPClient,
		Logger:     opts.Logger,
	})
	if !client.HasCredentials() && opts.Logger != nil {
		opts.Logger.Warn().Str("model", client.Model()).Msg("image: gemini api key missing; generation will fail until it is configured")
	}
	return NewGeminiTransformer(client), nil
}
