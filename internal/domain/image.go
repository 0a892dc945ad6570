package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// DefaultCaptureType is assumed for camera frames without a declared type.
	DefaultCaptureType = "image/jpeg"
	// DefaultUploadType is assumed for uploaded files whose type cannot be sniffed.
	DefaultUploadType = "application/octet-stream"
)

// CanonicalImage is the in-memory representation of an acquired photo. URL is
// always derived from Data and MediaType.
type CanonicalImage struct {
	Data      string `json:"-"`
	MediaType string `json:"media_type"`
	URL       string `json:"-"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int    `json:"bytes"`
}

// NewCanonicalImage builds a CanonicalImage from raw bytes.
func NewCanonicalImage(raw []byte, mediaType string) CanonicalImage {
	data := base64.StdEncoding.EncodeToString(raw)
	return CanonicalImage{
		Data:      data,
		MediaType: mediaType,
		URL:       DataURI(mediaType, data),
		Size:      len(raw),
	}
}

// Bytes decodes the base64 payload.
func (c CanonicalImage) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(c.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return raw, nil
}

// DataURI formats a base64 payload as a data URI.
func DataURI(mediaType, b64 string) string {
	return "data:" + mediaType + ";base64," + b64
}

// EncodeDataURI base64-encodes raw and formats it as a data URI.
func EncodeDataURI(mediaType string, raw []byte) string {
	return DataURI(mediaType, base64.StdEncoding.EncodeToString(raw))
}

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(uri string) (mediaType string, b64 string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", "", fmt.Errorf("%w: not a data uri", ErrConversion)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: missing payload separator", ErrConversion)
	}
	params := strings.Split(meta, ";")
	mediaType = strings.TrimSpace(params[0])
	encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			encoded = true
		}
	}
	if !encoded {
		return "", "", fmt.Errorf("%w: only base64 data uris are supported", ErrConversion)
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}
	return mediaType, payload, nil
}

// DecodeDataURI returns the binary payload of a base64 data URI.
func DecodeDataURI(uri string) (mediaType string, raw []byte, err error) {
	mediaType, b64, err := ParseDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	raw, err = base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", ErrConversion)
	}
	return mediaType, raw, nil
}
