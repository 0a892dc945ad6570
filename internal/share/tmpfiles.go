// Package share publishes artifacts to an anonymous file host and renders
// QR codes pointing at them.
package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"booth/internal/domain"
	"booth/internal/infra"
)

const (
	DefaultUploadURL      = "https://tmpfiles.org/api/v1/upload"
	DefaultFilenamePrefix = "foto-cabine-pd"

	networkGuidance = "check the internet connection and disable ad blockers or extensions that may block tmpfiles.org"
)

// Publisher uploads an artifact and returns a direct download link.
type Publisher interface {
	Publish(ctx context.Context, ref string) (domain.ShareLink, error)
}

// TmpFilesOptions configures the tmpfiles.org backend.
type TmpFilesOptions struct {
	UploadURL      string
	FilenamePrefix string
	HTTPClient     *http.Client
	Logger         *infra.Logger
}

// TmpFiles uploads to tmpfiles.org, which keeps files for a limited time and
// needs no account.
type TmpFiles struct {
	uploadURL  string
	prefix     string
	httpClient *http.Client
	logger     *infra.Logger
	now        func() time.Time
}

type tmpFilesResponse struct {
	Status string `json:"status"`
	Data   struct {
		URL string `json:"url"`
	} `json:"data"`
}

// NewTmpFiles returns a tmpfiles.org publisher.
func NewTmpFiles(opts TmpFilesOptions) *TmpFiles {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	uploadURL := strings.TrimSpace(opts.UploadURL)
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	prefix := strings.TrimSpace(opts.FilenamePrefix)
	if prefix == "" {
		prefix = DefaultFilenamePrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.Discard()
	}
	return &TmpFiles{uploadURL: uploadURL, prefix: prefix, httpClient: client, logger: logger, now: time.Now}
}

// Publish uploads the image at ref and returns its direct download URL.
func (t *TmpFiles) Publish(ctx context.Context, ref string) (domain.ShareLink, error) {
	mediaType, raw, err := domain.DecodeDataURI(ref)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}
	filename := t.prefix + "." + extensionFor(mediaType)

	body, contentType, err := multipartBody(filename, raw)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadURL, body)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := t.now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("%w: upload failed (%v); %s", domain.ErrNetwork, err, networkGuidance)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("%w: read upload response (%v); %s", domain.ErrNetwork, err, networkGuidance)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := strings.TrimSpace(string(data)); msg != "" {
			return domain.ShareLink{}, fmt.Errorf("%w: upload status %d: %s", domain.ErrUpstream, resp.StatusCode, msg)
		}
		return domain.ShareLink{}, fmt.Errorf("%w: upload status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed tmpFilesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return domain.ShareLink{}, fmt.Errorf("%w: decode upload response: %v", domain.ErrProtocol, err)
	}
	if parsed.Status != "success" || strings.TrimSpace(parsed.Data.URL) == "" {
		return domain.ShareLink{}, fmt.Errorf("%w: upload response status %q without a url", domain.ErrProtocol, parsed.Status)
	}

	link := domain.ShareLink{URL: DirectURL(parsed.Data.URL), ExpiresAt: start.Add(domain.ShareLinkTTL).UTC()}
	t.logger.Info().
		Str("url", link.URL).
		Int("bytes", len(raw)).
		Dur("latency", t.now().Sub(start)).
		Msg("share: artifact uploaded")
	return link, nil
}

// DirectURL turns a tmpfiles.org landing page URL into the direct download
// URL. Other URLs are returned unchanged.
func DirectURL(landing string) string {
	landing = strings.TrimSpace(landing)
	for _, prefix := range []string{"https://tmpfiles.org/", "http://tmpfiles.org/"} {
		rest, ok := strings.CutPrefix(landing, prefix)
		if !ok {
			continue
		}
		if strings.HasPrefix(rest, "dl/") {
			return landing
		}
		return prefix + "dl/" + rest
	}
	return landing
}

func extensionFor(mediaType string) string {
	if m := mimetype.Lookup(mediaType); m != nil {
		if ext := strings.TrimPrefix(m.Extension(), "."); ext != "" {
			return ext
		}
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return sub
	}
	return "png"
}

func multipartBody(filename string, raw []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(raw); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}
