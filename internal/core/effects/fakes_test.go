package effects

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// recordingSurface keeps just enough state to assert on effects.
type recordingSurface struct {
	mu            sync.Mutex
	ambient       []domain.AmbientShape
	particles     map[string]domain.Particle
	particleAdds  int
	rings         map[string]domain.PulseRing
	ringAdds      int
	reactive      bool
	reactiveFlips int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		particles: make(map[string]domain.Particle),
		rings:     make(map[string]domain.PulseRing),
	}
}

func (s *recordingSurface) SetBackground(string, string) {}
func (s *recordingSurface) SetTextColor(string)          {}
func (s *recordingSurface) SetLoading(bool)              {}
func (s *recordingSurface) ClearResults()                {}
func (s *recordingSurface) ShowMessage(string)           {}
func (s *recordingSurface) ShowMood(string)              {}
func (s *recordingSurface) ShowSongInfo(domain.SongInfo) {}

func (s *recordingSurface) ClearAmbientShapes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = nil
}

func (s *recordingSurface) AddAmbientShape(shape domain.AmbientShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = append(s.ambient, shape)
}

func (s *recordingSurface) AddParticle(p domain.Particle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.particles[p.ID] = p
	s.particleAdds++
}

func (s *recordingSurface) RemoveParticle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.particles, id)
}

func (s *recordingSurface) AddPulseRing(r domain.PulseRing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rings[r.ID] = r
	s.ringAdds++
}

func (s *recordingSurface) RemovePulseRing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rings, id)
}

func (s *recordingSurface) SetReactive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactive = active
	s.reactiveFlips++
}

func (s *recordingSurface) particleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.particles)
}

func (s *recordingSurface) ringCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rings)
}

type stubTempo struct {
	bpm    float64
	err    error
	calls  int
	during func()
}

func (s *stubTempo) GetTempo(ctx context.Context, track domain.TrackRef) (float64, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return 0, s.err
	}
	return s.bpm, nil
}

var errTempoDown = errors.New("tempo service down")

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}
