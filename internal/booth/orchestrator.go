// Package booth runs the photo booth pipeline and tracks per-user sessions.
package booth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"booth/internal/domain"
	"booth/internal/infra"
	imageprovider "booth/internal/providers/image"
)

// Phase names the stage a run is in.
type Phase string

const (
	PhaseGenerating  Phase = "generating"
	PhaseCompositing Phase = "compositing"
)

// Progress is emitted once per style before its request and once more when
// compositing starts.
type Progress struct {
	Phase     Phase  `json:"phase"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	StyleID   string `json:"style_id,omitempty"`
	StyleName string `json:"style_name,omitempty"`
}

// Outcome is what a successful run produces.
type Outcome struct {
	Results  domain.GenerationResult
	Artifact domain.CompositeArtifact
}

// Compositor turns generation results into the final artifact.
type Compositor interface {
	Collage(ctx context.Context, refs []string) (string, error)
	Watermark(ctx context.Context, ref string) (string, error)
}

// Orchestrator calls the transformer once per style, strictly in catalog
// order, then composes the results.
type Orchestrator struct {
	styles      []domain.StyleDescriptor
	transformer imageprovider.Transformer
	compositor  Compositor
	logger      *infra.Logger
	now         func() time.Time
}

// NewOrchestrator wires the pipeline. styles is copied.
func NewOrchestrator(styles []domain.StyleDescriptor, transformer imageprovider.Transformer, compositor Compositor, logger *infra.Logger) *Orchestrator {
	if logger == nil {
		logger = infra.Discard()
	}
	return &Orchestrator{
		styles:      append([]domain.StyleDescriptor(nil), styles...),
		transformer: transformer,
		compositor:  compositor,
		logger:      logger,
		now:         time.Now,
	}
}

// Styles returns the ordered styles the orchestrator runs.
func (o *Orchestrator) Styles() []domain.StyleDescriptor {
	return append([]domain.StyleDescriptor(nil), o.styles...)
}

// Run executes one full generation. Any failure aborts the run and the
// partial results are dropped.
func (o *Orchestrator) Run(ctx context.Context, img *domain.CanonicalImage, onProgress func(Progress)) (*Outcome, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image to transform", domain.ErrValidation)
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	total := len(o.styles)
	results := make(domain.GenerationResult, 0, total)
	for i, style := range o.styles {
		onProgress(Progress{Phase: PhaseGenerating, Index: i, Total: total, StyleID: style.ID, StyleName: style.Name})

		start := o.now()
		ref, err := o.transformer.Transform(ctx, *img, style.Prompt)
		if err != nil {
			o.logger.Warn().Err(err).Str("style", style.ID).Int("index", i).Msg("booth: style generation failed")
			return nil, fmt.Errorf("style %q: %w", style.Name, err)
		}
		o.logger.Debug().Str("style", style.ID).Int("index", i).Dur("latency", o.now().Sub(start)).Msg("booth: style generated")
		results = append(results, ref)
	}

	onProgress(Progress{Phase: PhaseCompositing, Index: total, Total: total})

	collage, err := o.compositor.Collage(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("collage: %w", err)
	}
	final, err := o.compositor.Watermark(ctx, collage)
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	artifact, err := describeArtifact(final, o.now())
	if err != nil {
		return nil, err
	}
	return &Outcome{Results: results, Artifact: artifact}, nil
}

func describeArtifact(ref string, createdAt time.Time) (domain.CompositeArtifact, error) {
	mediaType, raw, err := domain.DecodeDataURI(ref)
	if err != nil {
		return domain.CompositeArtifact{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return domain.CompositeArtifact{}, fmt.Errorf("%w: artifact: %v", domain.ErrResourceLoad, err)
	}
	return domain.CompositeArtifact{
		URL:       ref,
		MediaType: mediaType,
		Width:     cfg.Width,
		Height:    cfg.Height,
		CreatedAt: createdAt.UTC(),
	}, nil
}
