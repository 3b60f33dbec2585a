// Package rest is the HTTP driving adapter: it exposes generation, history,
// the render stream and playback reporting to the browser client.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// MoodboardService is the slice of the orchestrator the handler drives.
type MoodboardService interface {
	Generate(ctx context.Context, title, artist string) (domain.Moodboard, error)
	Regenerate(ctx context.Context) (domain.Moodboard, error)
	Current() (domain.Moodboard, bool)
}

// HistoryStore reads persisted moodboards.
type HistoryStore interface {
	GetByID(ctx context.Context, id string) (domain.Moodboard, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Moodboard, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type SceneSource interface {
	Snapshot() domain.SceneSnapshot
}

// PlaybackPublisher forwards preview control events. Publish returns false
// when nothing listens on the control.
type PlaybackPublisher interface {
	Publish(controlID string, ev domain.PlaybackEvent) bool
}

// Deps groups everything the handler talks to. History, DB and Events may be
// nil; the matching routes then answer 503.
type Deps struct {
	Moodboards MoodboardService
	History    HistoryStore
	DB         Pinger
	Scene      SceneSource
	Playback   PlaybackPublisher
	Events     http.Handler
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	deps   Deps
	router chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		deps:   deps,
		router: chi.NewRouter(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	r := h.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Route("/moodboards", func(r chi.Router) {
		r.Post("/", h.Generate)
		r.Get("/", h.ListMoodboards)
		r.Post("/regenerate", h.Regenerate)
		r.Get("/current", h.CurrentMoodboard)
		r.Get("/{id}", h.GetMoodboard)
	})

	r.Get("/scene", h.GetScene)
	r.Get("/events", h.Events)
	r.Post("/playback/{controlID}", h.ReportPlayback)

	r.Get("/", serveIndex)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyCheck reports whether the history store answers.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.deps.DB == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "db": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.deps.DB.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "db": "ok"})
}
