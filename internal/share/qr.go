package share

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"booth/internal/domain"
)

const (
	DefaultQRSize = 256
	qrModuleWidth = 8
)

type bufferCloser struct{ *bytes.Buffer }

func (bufferCloser) Close() error { return nil }

// RenderQR encodes content as a PNG QR code of size×size pixels with the
// highest error correction level.
func RenderQR(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty qr content", domain.ErrQRRender)
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	qrc, err := qrcode.NewWith(content, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest))
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrQRRender, err)
	}

	raw := &bytes.Buffer{}
	w := standard.NewWithWriter(bufferCloser{raw},
		standard.WithQRWidth(qrModuleWidth),
		standard.WithBorderWidth(qrModuleWidth*2),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("%w: render: %v", domain.ErrQRRender, err)
	}

	img, err := png.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode rendered code: %v", domain.ErrQRRender, err)
	}
	var scaled image.Image = img
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		scaled = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}

	out := &bytes.Buffer{}
	if err := png.Encode(out, scaled); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", domain.ErrQRRender, err)
	}
	return out.Bytes(), nil
}
