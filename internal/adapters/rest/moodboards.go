package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/services"
)

const (
	errCodeEmptyPalette = "EMPTY_PALETTE"
	errCodeSuperseded   = "SUPERSEDED"
	errCodeNothingYet   = "NOTHING_TO_REGENERATE"

	maxHistoryLimit = 100
)

type generateRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Generate handles POST /moodboards
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mb, err := h.deps.Moodboards.Generate(r.Context(), req.Title, req.Artist)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/moodboards/"+mb.ID)
	writeJSON(w, http.StatusCreated, mb)
}

// Regenerate handles POST /moodboards/regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	mb, err := h.deps.Moodboards.Regenerate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/moodboards/"+mb.ID)
	writeJSON(w, http.StatusCreated, mb)
}

// CurrentMoodboard handles GET /moodboards/current
func (h *Handler) CurrentMoodboard(w http.ResponseWriter, r *http.Request) {
	mb, ok := h.deps.Moodboards.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no moodboard generated yet")
		return
	}
	writeJSON(w, http.StatusOK, mb)
}

// ListMoodboards handles GET /moodboards?limit=N
func (h *Handler) ListMoodboards(w http.ResponseWriter, r *http.Request) {
	if h.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	list, err := h.deps.History.ListRecent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []domain.Moodboard{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetMoodboard handles GET /moodboards/{id}
func (h *Handler) GetMoodboard(w http.ResponseWriter, r *http.Request) {
	if h.deps.History == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	mb, err := h.deps.History.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mb)
}

// writeServiceError maps core sentinels onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, services.MessageMissingInput)
	case errors.Is(err, domain.ErrEmptyPalette):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, services.MessageNoPalette, errCodeEmptyPalette)
	case errors.Is(err, domain.ErrSuperseded):
		writeErrorWithCode(w, http.StatusConflict, err.Error(), errCodeSuperseded)
	case errors.Is(err, domain.ErrNothingToRegenerate):
		writeErrorWithCode(w, http.StatusConflict, err.Error(), errCodeNothingYet)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "moodboard not found")
	case errors.Is(err, domain.ErrGenerationFailed):
		writeError(w, http.StatusInternalServerError, services.MessageFailure)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
