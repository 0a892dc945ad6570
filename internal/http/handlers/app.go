package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"booth/internal/booth"
	"booth/internal/catalog"
	"booth/internal/connectivity"
	"booth/internal/infra"
	"booth/pkg/sse"
)

// App carries the dependencies shared by every handler.
type App struct {
	Config   *infra.Config
	Logger   *infra.Logger
	Catalog  *catalog.Catalog
	Sessions *booth.Registry
	Monitor  *connectivity.Monitor
	Hub      *sse.Hub
	// RunContext bounds background generations; it ends with the server.
	RunContext context.Context
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) runContext() context.Context {
	if a.RunContext != nil {
		return a.RunContext
	}
	return context.Background()
}
