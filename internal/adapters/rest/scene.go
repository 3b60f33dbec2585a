package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

type playbackRequest struct {
	Event string `json:"event"`
}

// GetScene handles GET /scene
func (h *Handler) GetScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Scene.Snapshot())
}

// Events handles GET /events, the render op stream.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.deps.Events == nil {
		writeError(w, http.StatusServiceUnavailable, "event stream is disabled")
		return
	}
	h.deps.Events.ServeHTTP(w, r)
}

// ReportPlayback handles POST /playback/{controlID}
func (h *Handler) ReportPlayback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req playbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ev, err := domain.ParsePlaybackEvent(req.Event)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.deps.Playback.Publish(chi.URLParam(r, "controlID"), ev) {
		writeError(w, http.StatusNotFound, "unknown or stale preview control")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
