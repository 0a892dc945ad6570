package handlers

import (
	"encoding/json"
	"net/http"
)

type connectivityRequest struct {
	Online *bool `json:"online"`
}

func (a *App) Connectivity(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"online": a.Monitor.Online()})
}

// SetConnectivity accepts the kiosk's own online/offline signal.
func (a *App) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Online == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.Monitor.Set(*req.Online)
	a.json(w, http.StatusOK, map[string]bool{"online": a.Monitor.Online()})
}
