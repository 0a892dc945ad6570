package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"booth/internal/domain"
)

const (
	DefaultWatermarkText = "P&D RFeitosa Group"

	watermarkPadding    = 30
	watermarkLogoHeight = 40
	watermarkGutter     = 15
	watermarkFontSize   = 28
	watermarkOpacity    = 0.6
)

// WatermarkLayout is where the logo and label land on a canvas.
type WatermarkLayout struct {
	Logo  image.Rectangle
	TextX int
	MidY  int
}

// Layout anchors the logo padding pixels from the bottom-left corner and
// puts the label to its right, centred on the logo's midline.
func Layout(canvasW, canvasH, logoW int) WatermarkLayout {
	y := canvasH - watermarkPadding - watermarkLogoHeight
	logo := image.Rect(watermarkPadding, y, watermarkPadding+logoW, y+watermarkLogoHeight)
	return WatermarkLayout{
		Logo:  logo,
		TextX: logo.Max.X + watermarkGutter,
		MidY:  y + watermarkLogoHeight/2,
	}
}

// Watermarker stamps the brand logo and label onto a finished collage.
type Watermarker struct {
	logo    *image.NRGBA
	text    string
	font    *opentype.Font
	opacity float64
}

// NewWatermarker scales logo to the watermark height. An empty text uses
// DefaultWatermarkText.
func NewWatermarker(logo image.Image, text string) (*Watermarker, error) {
	if logo == nil || logo.Bounds().Empty() {
		return nil, fmt.Errorf("%w: watermark logo is empty", domain.ErrResourceLoad)
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: parse watermark font: %v", domain.ErrResourceLoad, err)
	}
	if strings.TrimSpace(text) == "" {
		text = DefaultWatermarkText
	}
	return &Watermarker{
		logo:    imaging.Resize(logo, 0, watermarkLogoHeight, imaging.Lanczos),
		text:    text,
		font:    f,
		opacity: watermarkOpacity,
	}, nil
}

// LogoSize returns the scaled logo dimensions.
func (w *Watermarker) LogoSize() image.Point {
	return w.logo.Bounds().Size()
}

// Apply decodes the collage at ref, stamps it and returns a PNG data URI of
// the same dimensions.
func (w *Watermarker) Apply(ctx context.Context, ref string) (string, error) {
	base, err := decodeRef(ref)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := w.Stamp(base)
	if err != nil {
		return "", err
	}
	return encodePNG(out)
}

// Stamp draws the watermark over base. The logo and label share one layer
// that is blended at the watermark opacity; base keeps full opacity.
func (w *Watermarker) Stamp(base image.Image) (*image.NRGBA, error) {
	b := base.Bounds()
	layout := Layout(b.Dx(), b.Dy(), w.logo.Bounds().Dx())

	layer := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(layer, layout.Logo, w.logo, w.logo.Bounds().Min, draw.Over)

	// Faces keep per-glyph buffers, so each call gets its own.
	face, err := opentype.NewFace(w.font, &opentype.FaceOptions{
		Size:    watermarkFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: watermark font face: %v", domain.ErrResourceLoad, err)
	}
	defer face.Close()

	m := face.Metrics()
	baseline := fixed.I(layout.MidY) + (m.Ascent-m.Descent)/2
	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(layout.TextX), Y: baseline},
	}
	d.DrawString(w.text)

	canvas := imaging.Clone(base)
	return imaging.Overlay(canvas, layer, image.Point{}, w.opacity), nil
}

// Compositor joins the collage and watermark stages.
type Compositor struct {
	Collager
	watermark *Watermarker
}

// NewCompositor returns a story compositor stamping with wm.
func NewCompositor(wm *Watermarker) *Compositor {
	return &Compositor{Collager: DefaultCollager(), watermark: wm}
}

// Watermark applies the configured watermark to ref.
func (c *Compositor) Watermark(ctx context.Context, ref string) (string, error) {
	if c.watermark == nil {
		return "", fmt.Errorf("%w: no watermark configured", domain.ErrResourceLoad)
	}
	return c.watermark.Apply(ctx, ref)
}
