package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/services"
)

// --- Mocks ---

type mockService struct {
	mb         domain.Moodboard
	err        error
	current    *domain.Moodboard
	gotTitle   string
	gotArtist  string
	regenerate int
}

func (m *mockService) Generate(ctx context.Context, title, artist string) (domain.Moodboard, error) {
	m.gotTitle, m.gotArtist = title, artist
	return m.mb, m.err
}

func (m *mockService) Regenerate(ctx context.Context) (domain.Moodboard, error) {
	m.regenerate++
	return m.mb, m.err
}

func (m *mockService) Current() (domain.Moodboard, bool) {
	if m.current == nil {
		return domain.Moodboard{}, false
	}
	return *m.current, true
}

type mockHistory struct {
	items    map[string]domain.Moodboard
	list     []domain.Moodboard
	err      error
	gotLimit int
}

func (m *mockHistory) GetByID(ctx context.Context, id string) (domain.Moodboard, error) {
	if m.err != nil {
		return domain.Moodboard{}, m.err
	}
	mb, ok := m.items[id]
	if !ok {
		return domain.Moodboard{}, fmt.Errorf("sqlite adapter: get %s: %w", id, domain.ErrNotFound)
	}
	return mb, nil
}

func (m *mockHistory) ListRecent(ctx context.Context, limit int) ([]domain.Moodboard, error) {
	m.gotLimit = limit
	return m.list, m.err
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(ctx context.Context) error { return m.err }

type mockScene struct{ snap domain.SceneSnapshot }

func (m mockScene) Snapshot() domain.SceneSnapshot { return m.snap }

type mockPlayback struct {
	known   map[string]bool
	control string
	event   domain.PlaybackEvent
}

func (m *mockPlayback) Publish(controlID string, ev domain.PlaybackEvent) bool {
	m.control, m.event = controlID, ev
	return m.known[controlID]
}

func newTestHandler(svc *mockService, history HistoryStore) *Handler {
	return NewHandler(Deps{
		Moodboards: svc,
		History:    history,
		DB:         mockPinger{},
		Scene:      mockScene{},
		Playback:   &mockPlayback{},
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_Generate(t *testing.T) {
	board := domain.Moodboard{ID: "mb-1", Title: "Song", Artist: "Band", Palette: domain.Palette{"#112233"}}

	tests := []struct {
		name           string
		body           string
		contentType    string
		svcErr         error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns the moodboard",
			body:           `{"title":"Song","artist":"Band"}`,
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"mb-1"`,
		},
		{
			name:           "Bad Request: blank fields",
			body:           `{"title":" ","artist":""}`,
			svcErr:         domain.ErrInvalidInput,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   services.MessageMissingInput,
		},
		{
			name:           "Bad Request: malformed json",
			body:           `{invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Unsupported media type",
			body:           `{"title":"Song","artist":"Band"}`,
			contentType:    "text/plain",
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "Unprocessable: empty palette",
			body:           `{"title":"Song","artist":"Band"}`,
			svcErr:         domain.ErrEmptyPalette,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"code":"EMPTY_PALETTE"`,
		},
		{
			name:           "Conflict: superseded",
			body:           `{"title":"Song","artist":"Band"}`,
			svcErr:         fmt.Errorf("service: %w", domain.ErrSuperseded),
			expectedStatus: http.StatusConflict,
			expectedBody:   `"code":"SUPERSEDED"`,
		},
		{
			name:           "Server Error: generation failed",
			body:           `{"title":"Song","artist":"Band"}`,
			svcErr:         fmt.Errorf("%w: boom", domain.ErrGenerationFailed),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   services.MessageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{mb: board, err: tt.svcErr}
			h := newTestHandler(svc, nil)

			req := httptest.NewRequest(http.MethodPost, "/moodboards", strings.NewReader(tt.body))
			ct := tt.contentType
			if ct == "" {
				ct = "application/json; charset=utf-8"
			}
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "/moodboards/mb-1", rec.Header().Get("Location"))
				assert.Equal(t, "Song", svc.gotTitle)
				assert.Equal(t, "Band", svc.gotArtist)
			}
		})
	}
}

func TestHandler_Regenerate(t *testing.T) {
	t.Run("nothing generated yet", func(t *testing.T) {
		svc := &mockService{err: domain.ErrNothingToRegenerate}
		rec := do(newTestHandler(svc, nil), http.MethodPost, "/moodboards/regenerate", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), errCodeNothingYet)
	})

	t.Run("replays the last song", func(t *testing.T) {
		svc := &mockService{mb: domain.Moodboard{ID: "mb-2"}}
		rec := do(newTestHandler(svc, nil), http.MethodPost, "/moodboards/regenerate", "")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, svc.regenerate)
	})
}

func TestHandler_CurrentMoodboard(t *testing.T) {
	svc := &mockService{}
	h := newTestHandler(svc, nil)

	rec := do(h, http.MethodGet, "/moodboards/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.current = &domain.Moodboard{ID: "mb-3", Title: "Now"}
	rec = do(h, http.MethodGet, "/moodboards/current", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Moodboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "mb-3", got.ID)
}

func TestHandler_History(t *testing.T) {
	history := &mockHistory{
		items: map[string]domain.Moodboard{"mb-1": {ID: "mb-1", Title: "Song"}},
		list:  []domain.Moodboard{{ID: "mb-2"}, {ID: "mb-1"}},
	}
	h := newTestHandler(&mockService{}, history)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
		expectedLimit  int
	}{
		{name: "list default limit", target: "/moodboards", expectedStatus: http.StatusOK, expectedBody: `"id":"mb-2"`},
		{name: "list with limit", target: "/moodboards?limit=5", expectedStatus: http.StatusOK, expectedLimit: 5},
		{name: "list rejects bad limit", target: "/moodboards?limit=0", expectedStatus: http.StatusBadRequest},
		{name: "list rejects huge limit", target: "/moodboards?limit=1000", expectedStatus: http.StatusBadRequest},
		{name: "get by id", target: "/moodboards/mb-1", expectedStatus: http.StatusOK, expectedBody: `"title":"Song"`},
		{name: "get unknown id", target: "/moodboards/missing", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history.gotLimit = -1
			rec := do(h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
			if tt.expectedLimit != 0 {
				assert.Equal(t, tt.expectedLimit, history.gotLimit)
			}
		})
	}
}

func TestHandler_HistoryEmptyListIsArray(t *testing.T) {
	h := newTestHandler(&mockService{}, &mockHistory{})
	rec := do(h, http.MethodGet, "/moodboards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_HistoryDisabled(t *testing.T) {
	h := NewHandler(Deps{Moodboards: &mockService{}, Scene: mockScene{}, Playback: &mockPlayback{}})
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/moodboards", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/moodboards/x", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/events", "").Code)
}

func TestHandler_ReportPlayback(t *testing.T) {
	tests := []struct {
		name           string
		control        string
		body           string
		expectedStatus int
		expectedEvent  domain.PlaybackEvent
	}{
		{name: "play on live control", control: "ctl-1", body: `{"event":"play"}`, expectedStatus: http.StatusNoContent, expectedEvent: domain.PlaybackStarted},
		{name: "ended on live control", control: "ctl-1", body: `{"event":"ended"}`, expectedStatus: http.StatusNoContent, expectedEvent: domain.PlaybackEnded},
		{name: "stale control", control: "ctl-old", body: `{"event":"pause"}`, expectedStatus: http.StatusNotFound, expectedEvent: domain.PlaybackPaused},
		{name: "unknown event", control: "ctl-1", body: `{"event":"seek"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := &mockPlayback{known: map[string]bool{"ctl-1": true}}
			h := NewHandler(Deps{Moodboards: &mockService{}, Scene: mockScene{}, Playback: pb})

			rec := do(h, http.MethodPost, "/playback/"+tt.control, tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedEvent != domain.PlaybackUnknown {
				assert.Equal(t, tt.control, pb.control)
				assert.Equal(t, tt.expectedEvent, pb.event)
			}
		})
	}
}

func TestHandler_Scene(t *testing.T) {
	snap := domain.SceneSnapshot{
		Background: domain.Background{ColorA: "#112233", ColorB: "#445566"},
		Mood:       "calm",
	}
	h := NewHandler(Deps{Moodboards: &mockService{}, Scene: mockScene{snap: snap}, Playback: &mockPlayback{}})

	rec := do(h, http.MethodGet, "/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.SceneSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, snap.Background, got.Background)
	assert.Equal(t, "calm", got.Mood)
}

func TestHandler_HealthAndReady(t *testing.T) {
	h := newTestHandler(&mockService{}, nil)
	rec := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/ready", "").Code)

	down := NewHandler(Deps{Moodboards: &mockService{}, DB: mockPinger{err: errors.New("locked")}, Scene: mockScene{}, Playback: &mockPlayback{}})
	assert.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/ready", "").Code)
}

func TestHandler_ServesClient(t *testing.T) {
	rec := do(newTestHandler(&mockService{}, nil), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "EventSource('/events')")
	assert.Contains(t, rec.Body.String(), "body.reactive .album-art", "artwork highlights while playing")
}
