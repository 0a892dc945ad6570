package compose

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"booth/internal/domain"
)

//go:embed assets/logo.svg
var defaultLogoSVG []byte

// logoRasterHeight is the height SVG logos are rasterized at before the
// watermark scales them down, so the final resample has detail to work with.
const logoRasterHeight = 160

// LoadLogo returns the logo at path, or the embedded default when path is
// empty. SVG files are rasterized; anything else goes through image.Decode.
func LoadLogo(path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return RasterizeSVG(defaultLogoSVG, logoRasterHeight)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read logo: %v", domain.ErrResourceLoad, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return RasterizeSVG(data, logoRasterHeight)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode logo: %v", domain.ErrResourceLoad, err)
	}
	return img, nil
}

// RasterizeSVG renders an SVG document at the given height, keeping the
// aspect ratio of its view box.
func RasterizeSVG(data []byte, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse svg logo: %v", domain.ErrResourceLoad, err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: svg logo has no view box", domain.ErrResourceLoad)
	}
	width := int(float64(height) * icon.ViewBox.W / icon.ViewBox.H)
	if width < 1 {
		width = 1
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1)
	return rgba, nil
}
