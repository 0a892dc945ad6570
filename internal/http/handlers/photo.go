package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"booth/internal/acquire"
	"booth/internal/domain"
	"booth/internal/middleware"
)

type photoDataURIRequest struct {
	DataURI string `json:"data_uri"`
}

// UploadPhoto accepts a multipart "file" field, a JSON {"data_uri"} body or
// the raw image bytes. ?source=camera picks the camera defaults.
func (a *App) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	img, err := a.readPhoto(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	snap := s.SetImage(img)
	a.Logger.Info().
		Str("session_id", s.ID()).
		Str("media_type", img.MediaType).
		Int("bytes", img.Size).
		Msg("http: photo acquired")
	a.json(w, http.StatusOK, newSessionView(snap, middleware.LocaleFromContext(r.Context())))
}

func (a *App) readPhoto(w http.ResponseWriter, r *http.Request) (domain.CanonicalImage, error) {
	src := acquire.ParseSource(r.URL.Query().Get("source"))
	opts := acquire.Options{MaxBytes: a.Config.MaxUploadBytes}
	if a.Config.MaxUploadBytes > 0 {
		// Envelope overhead on top of the image limit.
		r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes*2+1<<20)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		file, header, err := r.FormFile("file")
		if err != nil {
			return domain.CanonicalImage{}, fmt.Errorf("%w: multipart field \"file\": %v", domain.ErrValidation, err)
		}
		defer file.Close()
		return acquire.FromReader(file, header.Header.Get("Content-Type"), src, opts)
	case mediaType == "application/json":
		var req photoDataURIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if tooLarge(err) {
				return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			return domain.CanonicalImage{}, fmt.Errorf("%w: %v", domain.ErrIO, err)
		}
		if strings.TrimSpace(req.DataURI) == "" {
			return domain.CanonicalImage{}, fmt.Errorf("%w: data_uri is required", domain.ErrValidation)
		}
		return acquire.FromDataURI(req.DataURI, src, opts)
	default:
		return acquire.FromReader(r.Body, mediaType, src, opts)
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
