// Package acquire normalizes camera frames and uploaded files into
// domain.CanonicalImage values.
package acquire

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"booth/internal/domain"
)

// Source tells acquisition where the payload came from; it picks the default
// media type when neither sniffing nor the declared type yield one.
type Source string

const (
	SourceCamera Source = "camera"
	SourceUpload Source = "upload"
)

// ParseSource maps free-form input to a Source, defaulting to uploads.
func ParseSource(v string) Source {
	if strings.EqualFold(strings.TrimSpace(v), string(SourceCamera)) {
		return SourceCamera
	}
	return SourceUpload
}

func (s Source) defaultType() string {
	if s == SourceCamera {
		return domain.DefaultCaptureType
	}
	return domain.DefaultUploadType
}

// Options bound what acquisition accepts.
type Options struct {
	MaxBytes int64
}

// FromReader reads the whole payload and builds a CanonicalImage.
func FromReader(r io.Reader, declaredType string, src Source, opts Options) (domain.CanonicalImage, error) {
	if r == nil {
		return domain.CanonicalImage{}, fmt.Errorf("%w: no payload", domain.ErrValidation)
	}
	reader := r
	if opts.MaxBytes > 0 {
		reader = io.LimitReader(r, opts.MaxBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	if opts.MaxBytes > 0 && int64(len(raw)) > opts.MaxBytes {
		return domain.CanonicalImage{}, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrValidation, opts.MaxBytes)
	}
	return FromBytes(raw, declaredType, src)
}

// FromBytes builds a CanonicalImage from an in-memory payload.
func FromBytes(raw []byte, declaredType string, src Source) (domain.CanonicalImage, error) {
	if len(raw) == 0 {
		return domain.CanonicalImage{}, fmt.Errorf("%w: empty payload", domain.ErrFormat)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	img := domain.NewCanonicalImage(raw, detectType(raw, declaredType, src))
	img.Width, img.Height = cfg.Width, cfg.Height
	return img, nil
}

// FromDataURI accepts an already encoded data URI, as produced by browsers
// reading a file with FileReader.readAsDataURL. opts.MaxBytes bounds the
// decoded payload.
func FromDataURI(uri string, src Source, opts Options) (domain.CanonicalImage, error) {
	mediaType, b64, err := domain.ParseDataURI(uri)
	if err != nil {
		return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if strings.TrimSpace(b64) == "" {
		return domain.CanonicalImage{}, fmt.Errorf("%w: data uri has no payload", domain.ErrFormat)
	}
	_, raw, err := domain.DecodeDataURI(uri)
	if err != nil {
		return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if opts.MaxBytes > 0 && int64(len(raw)) > opts.MaxBytes {
		return domain.CanonicalImage{}, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrValidation, opts.MaxBytes)
	}
	return FromBytes(raw, mediaType, src)
}

func detectType(raw []byte, declared string, src Source) string {
	if mt := mimetype.Detect(raw); mt != nil && strings.HasPrefix(mt.String(), "image/") {
		return baseType(mt.String())
	}
	if declared = baseType(declared); declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return src.defaultType()
}

func baseType(v string) string {
	v, _, _ = strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(v))
}
