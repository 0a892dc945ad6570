package compose

import (
	"image"
	"math"
)

// Crop is a source rectangle in floating point pixel coordinates.
type Crop struct {
	X, Y, W, H float64
}

// CoverCrop returns the centered region of a srcW×srcH image that, scaled,
// exactly fills a boxW×boxH slot ("object-fit: cover"). Images relatively
// wider than the slot lose their left and right edges; all others lose top
// and bottom.
func CoverCrop(srcW, srcH, boxW, boxH float64) Crop {
	imgRatio := srcW / srcH
	boxRatio := boxW / boxH
	if imgRatio > boxRatio {
		h := srcH
		w := h * boxRatio
		return Crop{X: (srcW - w) / 2, Y: 0, W: w, H: h}
	}
	w := srcW
	h := w / boxRatio
	return Crop{X: 0, Y: (srcH - h) / 2, W: w, H: h}
}

// Rect rounds the crop to whole pixels inside src, whose Min is the crop's
// origin. Every axis keeps at least one pixel, so a sliver of a very thin
// source is still stretched over the slot.
func (c Crop) Rect(src image.Rectangle) image.Rectangle {
	x0, x1 := pixelSpan(c.X, c.W, src.Dx())
	y0, y1 := pixelSpan(c.Y, c.H, src.Dy())
	return image.Rect(x0, y0, x1, y1).Add(src.Min)
}

func pixelSpan(start, length float64, limit int) (int, int) {
	lo := int(math.Round(start))
	hi := int(math.Round(start + length))
	if hi <= lo {
		lo = int(math.Floor(start))
		hi = int(math.Ceil(start + length))
	}
	if hi <= lo {
		hi = lo + 1
	}
	if lo < 0 {
		lo = 0
	}
	if hi > limit {
		hi = limit
	}
	if hi <= lo {
		lo = hi - 1
	}
	return lo, hi
}

// BandRect returns slot k of n equal horizontal bands on a w×h canvas. Band
// edges are rounded from the exact fractional split so that consecutive bands
// neither overlap nor leave gaps.
func BandRect(k, n, w, h int) image.Rectangle {
	y0 := int(math.Round(float64(k) * float64(h) / float64(n)))
	y1 := int(math.Round(float64(k+1) * float64(h) / float64(n)))
	return image.Rect(0, y0, w, y1)
}
