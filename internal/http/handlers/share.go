package handlers

import (
	"context"
	"net/http"
	"strconv"

	"booth/internal/infra"
	"booth/internal/share"
)

func (a *App) shareContext(r *http.Request) (context.Context, context.CancelFunc) {
	return infra.WithTimeout(r.Context(), a.Config.ShareTimeout)
}

// Share uploads the artifact on first use and returns the cached link after.
func (a *App) Share(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	ctx, cancel := a.shareContext(r)
	defer cancel()
	link, err := s.ShareLink(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, link)
}

// QR renders the share link as a PNG QR code. ?size= overrides the default
// 256 pixels.
func (a *App) QR(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	size := share.DefaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 1024 {
			a.error(w, http.StatusBadRequest, "bad_request", "size must be between 64 and 1024")
			return
		}
		size = n
	}
	ctx, cancel := a.shareContext(r)
	defer cancel()
	link, err := s.ShareLink(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	png, err := share.RenderQR(link.URL, size)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Share-URL", link.URL)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
