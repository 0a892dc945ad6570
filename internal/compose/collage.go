// Package compose builds the story collage and burns in the watermark.
package compose

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"booth/internal/domain"
)

const (
	StoryWidth  = 1080
	StoryHeight = 1920
	JPEGQuality = 90
)

// Collager lays results out as equal vertical bands on a fixed canvas.
type Collager struct {
	Width   int
	Height  int
	Quality int
}

// DefaultCollager returns the 1080×1920 story collager.
func DefaultCollager() Collager {
	return Collager{Width: StoryWidth, Height: StoryHeight, Quality: JPEGQuality}
}

// Collage composes refs top to bottom and returns a JPEG data URI. Every ref
// is decoded before anything is drawn.
func (c Collager) Collage(ctx context.Context, refs []string) (string, error) {
	if len(refs) == 0 {
		return "", fmt.Errorf("%w: collage needs at least one image", domain.ErrValidation)
	}
	imgs, err := decodeAll(refs)
	if err != nil {
		return "", err
	}
	canvas, err := c.Compose(ctx, imgs)
	if err != nil {
		return "", err
	}
	return encodeJPEG(canvas, c.Quality)
}

// Compose draws already decoded images into the collage canvas.
func (c Collager) Compose(ctx context.Context, imgs []image.Image) (*image.RGBA, error) {
	n := len(imgs)
	if n == 0 {
		return nil, fmt.Errorf("%w: collage needs at least one image", domain.ErrValidation)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	slotH := float64(c.Height) / float64(n)
	for k, img := range imgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := img.Bounds()
		if b.Empty() {
			return nil, fmt.Errorf("%w: image %d has no pixels", domain.ErrResourceLoad, k+1)
		}
		crop := CoverCrop(float64(b.Dx()), float64(b.Dy()), float64(c.Width), slotH)
		xdraw.CatmullRom.Scale(canvas, BandRect(k, n, c.Width, c.Height), img, crop.Rect(b), draw.Src, nil)
	}
	return canvas, nil
}

// Collage composes refs with the default story collager.
func Collage(ctx context.Context, refs []string) (string, error) {
	return DefaultCollager().Collage(ctx, refs)
}
