package services

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/moodboard/internal/adapters/surface"
	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

type stubPalette struct {
	mu    sync.Mutex
	calls int
	byKey map[string]domain.MoodPalette
	err   error
	// gates blocks the call for a title until the channel is closed.
	gates   map[string]chan struct{}
	started chan string
	panics  bool
}

func (s *stubPalette) GeneratePalette(ctx context.Context, title, artist string) (domain.MoodPalette, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gates[title]
	s.mu.Unlock()

	if s.started != nil {
		s.started <- title
	}
	if gate != nil {
		<-gate
	}
	if s.panics {
		panic("palette exploded")
	}
	if s.err != nil {
		return domain.MoodPalette{}, s.err
	}
	return s.byKey[title], nil
}

func (s *stubPalette) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubEnricher struct {
	mu    sync.Mutex
	calls int
	meta  domain.TrackMetadata
	err   error
	// waitCancel holds the call until its context is cancelled.
	waitCancel bool
	cancelled  bool
}

func (s *stubEnricher) Enrich(ctx context.Context, title, artist string) (domain.TrackMetadata, error) {
	s.mu.Lock()
	s.calls++
	wait := s.waitCancel
	s.mu.Unlock()
	if wait {
		<-ctx.Done()
		s.mu.Lock()
		s.cancelled = true
		s.mu.Unlock()
		return domain.TrackMetadata{}, ctx.Err()
	}
	return s.meta, s.err
}

func (s *stubEnricher) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

type stubCatalog struct {
	mu    sync.Mutex
	calls int
	query string
	hit   *domain.CatalogTrack
	err   error
}

func (s *stubCatalog) SearchTrack(ctx context.Context, query string) (*domain.CatalogTrack, error) {
	s.mu.Lock()
	s.calls++
	s.query = query
	s.mu.Unlock()
	return s.hit, s.err
}

type stubTempo struct {
	bpm   float64
	err   error
	calls int
	last  domain.TrackRef
}

func (s *stubTempo) GetTempo(ctx context.Context, track domain.TrackRef) (float64, error) {
	s.calls++
	s.last = track
	return s.bpm, s.err
}

type memRecorder struct {
	mu   sync.Mutex
	got  []domain.Moodboard
	full bool
}

func (r *memRecorder) Record(m domain.Moodboard) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return false
	}
	r.got = append(r.got, m)
	return true
}

// moodPanicScene blows up halfway through applying a moodboard.
type moodPanicScene struct {
	*surface.Scene
}

func (moodPanicScene) ShowMood(string) {
	panic("render failed")
}
