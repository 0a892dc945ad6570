package acquire

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"booth/internal/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFromReaderPNGUpload(t *testing.T) {
	raw := pngBytes(t, 12, 8)
	img, err := FromReader(bytes.NewReader(raw), "", SourceUpload, Options{})
	if err != nil {
		t.Fatalf("FromReader returned error: %v", err)
	}
	if img.MediaType != "image/png" {
		t.Fatalf("MediaType = %q, want image/png", img.MediaType)
	}
	if img.Width != 12 || img.Height != 8 {
		t.Fatalf("dimensions = %dx%d, want 12x8", img.Width, img.Height)
	}
	if !strings.HasPrefix(img.URL, "data:image/png;base64,") || !strings.HasSuffix(img.URL, img.Data) {
		t.Fatalf("URL not derived from payload: %q", img.URL[:40])
	}
}

func TestFromBytesCameraJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	img, err := FromBytes(buf.Bytes(), "", SourceCamera)
	if err != nil {
		t.Fatalf("FromBytes returned error: %v", err)
	}
	if img.MediaType != "image/jpeg" {
		t.Fatalf("MediaType = %q, want image/jpeg", img.MediaType)
	}
}

func TestFromReaderFailures(t *testing.T) {
	if _, err := FromReader(failingReader{}, "", SourceUpload, Options{}); !errors.Is(err, domain.ErrIO) {
		t.Fatalf("read failure err = %v, want ErrIO", err)
	}
	if _, err := FromReader(bytes.NewReader(nil), "", SourceUpload, Options{}); !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("empty payload err = %v, want ErrFormat", err)
	}
	if _, err := FromReader(strings.NewReader("not an image"), "image/png", SourceUpload, Options{}); !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("garbage payload err = %v, want ErrFormat", err)
	}
	raw := pngBytes(t, 64, 64)
	if _, err := FromReader(bytes.NewReader(raw), "", SourceUpload, Options{MaxBytes: 10}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversize err = %v, want ErrValidation", err)
	}
}

func TestFromDataURI(t *testing.T) {
	raw := pngBytes(t, 3, 3)
	img, err := FromDataURI(domain.EncodeDataURI("image/png", raw), SourceUpload, Options{})
	if err != nil {
		t.Fatalf("FromDataURI returned error: %v", err)
	}
	if img.Size != len(raw) {
		t.Fatalf("Size = %d, want %d", img.Size, len(raw))
	}
	if _, err := FromDataURI("data:image/png;base64,", SourceUpload, Options{}); !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("empty data uri err = %v, want ErrFormat", err)
	}
}

func TestFromDataURIEnforcesMaxBytes(t *testing.T) {
	raw := pngBytes(t, 64, 64)
	uri := domain.EncodeDataURI("image/png", raw)

	if _, err := FromDataURI(uri, SourceUpload, Options{MaxBytes: int64(len(raw)) - 1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversized data uri err = %v, want ErrValidation", err)
	}
	img, err := FromDataURI(uri, SourceUpload, Options{MaxBytes: int64(len(raw))})
	if err != nil {
		t.Fatalf("data uri at the limit returned error: %v", err)
	}
	if img.Size != len(raw) {
		t.Fatalf("Size = %d, want %d", img.Size, len(raw))
	}
}

func TestDetectTypeFallbacks(t *testing.T) {
	garbage := []byte("plain text")
	if got := detectType(garbage, "image/heic; q=1", SourceUpload); got != "image/heic" {
		t.Fatalf("declared fallback = %q", got)
	}
	if got := detectType(garbage, "", SourceCamera); got != domain.DefaultCaptureType {
		t.Fatalf("camera fallback = %q", got)
	}
	if got := detectType(garbage, "application/octet-stream", SourceUpload); got != domain.DefaultUploadType {
		t.Fatalf("upload fallback = %q", got)
	}
}
