package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"online":   a.Monitor.Online(),
		"styles":   a.Catalog.Len(),
		"sessions": a.Sessions.Len(),
	})
}
