package compose

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"

	"booth/internal/domain"
)

// decodeRef loads a data URI into an image. Any failure is a resource load
// failure: the caller never gets a partially usable image.
func decodeRef(ref string) (image.Image, error) {
	_, raw, err := domain.DecodeDataURI(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceLoad, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceLoad, err)
	}
	return img, nil
}

func decodeAll(refs []string) ([]image.Image, error) {
	imgs := make([]image.Image, len(refs))
	for i, ref := range refs {
		img, err := decodeRef(ref)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		imgs[i] = img
	}
	return imgs, nil
}

func encodeJPEG(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return domain.EncodeDataURI("image/jpeg", buf.Bytes()), nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return domain.EncodeDataURI("image/png", buf.Bytes()), nil
}
