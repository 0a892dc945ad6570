package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"booth/internal/domain"
	"booth/pkg/zip"
)

// Artifact serves the watermarked collage as a download.
func (a *App) Artifact(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	outcome, err := s.Outcome()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	mediaType, raw, err := domain.DecodeDataURI(outcome.Artifact.URL)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Config.DownloadFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Bundle serves every style result plus the final collage as one zip.
func (a *App) Bundle(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	outcome, err := s.Outcome()
	if err != nil {
		a.fail(w, r, err)
		return
	}

	styles := a.Catalog.Styles()
	assets := make([]zip.Asset, 0, len(outcome.Results)+1)
	for i, ref := range outcome.Results {
		mediaType, raw, err := domain.DecodeDataURI(ref)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		name := fmt.Sprintf("%02d", i+1)
		if i < len(styles) {
			name += "-" + styles[i].ID
		}
		assets = append(assets, zip.Asset{
			Filename: name + "." + extension(mediaType),
			MIME:     mediaType,
			Data:     raw,
			Modified: outcome.Artifact.CreatedAt,
		})
	}
	mediaType, raw, err := domain.DecodeDataURI(outcome.Artifact.URL)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	assets = append(assets, zip.Asset{Filename: a.Config.DownloadFilename, MIME: mediaType, Data: raw, Modified: outcome.Artifact.CreatedAt})

	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	base := strings.TrimSuffix(a.Config.DownloadFilename, ".png")
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func extension(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
