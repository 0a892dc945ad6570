package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"booth/internal/http/handlers"
	"booth/internal/middleware"
)

// Options carries the cross-cutting middleware settings.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/styles", app.Styles)
	r.Get("/v1/connectivity", app.Connectivity)
	r.Put("/v1/connectivity", app.SetConnectivity)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/", app.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetSession)
			r.Delete("/", app.DeleteSession)
			r.Get("/events", app.Events)
			r.Get("/artifact", app.Artifact)
			r.Get("/bundle", app.Bundle)
			r.Get("/qr", app.QR)
			r.Post("/reset", app.ResetSession)
			r.Post("/photo", app.UploadPhoto)

			// Calls that reach paid or third party services.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
				r.Post("/generate", app.Generate)
				r.Post("/share", app.Share)
			})
		})
	})

	return r
}
