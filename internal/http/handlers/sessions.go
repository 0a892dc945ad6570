package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"booth/internal/booth"
	"booth/internal/middleware"
	"booth/pkg/sse"
)

var eventLocales = []string{middleware.LocalePortuguese, middleware.LocaleEnglish}

// sessionView is a snapshot with its user facing texts rendered.
type sessionView struct {
	booth.Snapshot
	ProgressText string     `json:"progress_text,omitempty"`
	Error        *errorBody `json:"error,omitempty"`
}

func newSessionView(snap booth.Snapshot, locale string) sessionView {
	v := sessionView{Snapshot: snap, Error: describeError(snap.Err, locale)}
	if snap.Progress != nil {
		v.ProgressText = snap.Progress.Text(locale)
	}
	return v
}

func eventTopic(id, locale string) string {
	return id + "/" + locale
}

// broadcast renders snap once per locale so every stream gets its own
// language.
func (a *App) broadcast(snap booth.Snapshot) {
	if a.Hub == nil {
		return
	}
	for _, locale := range eventLocales {
		data, err := json.Marshal(newSessionView(snap, locale))
		if err != nil {
			continue
		}
		a.Hub.PublishTopic(eventTopic(snap.ID, locale), data)
	}
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*booth.Session, bool) {
	s, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return s, true
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Create()
	s.Subscribe(a.broadcast)
	a.Logger.Info().
		Str("session_id", s.ID()).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("http: session created")
	a.json(w, http.StatusCreated, newSessionView(s.Snapshot(), middleware.LocaleFromContext(r.Context())))
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, newSessionView(s.Snapshot(), middleware.LocaleFromContext(r.Context())))
}

func (a *App) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ResetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, newSessionView(s.Reset(), middleware.LocaleFromContext(r.Context())))
}

// Generate starts a run in the background and answers 202 right away;
// progress is observed through GetSession or Events.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := s.Start(a.runContext()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusAccepted, newSessionView(s.Snapshot(), middleware.LocaleFromContext(r.Context())))
}

func (a *App) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	// The snapshot is taken after subscribing; a client may still see an
	// event whose seq is not above the initial one and should drop it.
	sse.Serve(w, r, a.Hub, eventTopic(s.ID(), locale), func() []byte {
		data, err := json.Marshal(newSessionView(s.Snapshot(), locale))
		if err != nil {
			a.Logger.Warn().Err(err).Str("session_id", s.ID()).Msg("http: encode initial event")
			return nil
		}
		return data
	})
}
