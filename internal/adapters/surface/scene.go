// Package surface keeps the authoritative state of the render surface and
// streams every change to render clients as domain.RenderOp values.
package surface

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const defaultQueueSize = 1024

var _ ports.Surface = (*Scene)(nil)

// Publisher receives render operations in the order they were applied.
type Publisher interface {
	Broadcast(data any)
}

// Scene is a thread-safe model of the render surface.
type Scene struct {
	mu         sync.RWMutex
	background domain.Background
	textColor  string
	ambient    []domain.AmbientShape
	particles  map[string]domain.Particle
	rings      map[string]domain.PulseRing
	reactive   bool
	loading    bool
	message    string
	mood       string
	song       *domain.SongInfo

	ops chan domain.RenderOp
}

// NewScene returns an empty scene. queueSize bounds the ops waiting for Run;
// ops beyond it are dropped.
func NewScene(queueSize int) *Scene {
	if queueSize < 1 {
		queueSize = defaultQueueSize
	}
	return &Scene{
		particles: make(map[string]domain.Particle),
		rings:     make(map[string]domain.PulseRing),
		ops:       make(chan domain.RenderOp, queueSize),
	}
}

// Run forwards queued ops to pub until ctx is done.
func (s *Scene) Run(ctx context.Context, pub Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.ops:
			pub.Broadcast(op)
		}
	}
}

// emitLocked queues op. Callers hold s.mu so queue order matches apply order.
func (s *Scene) emitLocked(op string, data any) {
	select {
	case s.ops <- domain.RenderOp{Op: op, Data: data}:
	default:
		log.Warn().Str("op", op).Msg("render queue full, dropping op")
	}
}

func (s *Scene) SetBackground(colorA, colorB string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = domain.Background{ColorA: colorA, ColorB: colorB}
	s.emitLocked(domain.OpBackground, s.background)
}

func (s *Scene) SetTextColor(hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textColor = hex
	s.emitLocked(domain.OpTextColor, hex)
}

func (s *Scene) ClearAmbientShapes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = nil
	s.emitLocked(domain.OpAmbientClear, nil)
}

func (s *Scene) AddAmbientShape(shape domain.AmbientShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = append(s.ambient, shape)
	s.emitLocked(domain.OpAmbientAdd, shape)
}

func (s *Scene) AddParticle(p domain.Particle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.particles[p.ID] = p
	s.emitLocked(domain.OpParticleAdd, p)
}

func (s *Scene) RemoveParticle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.particles[id]; !ok {
		return
	}
	delete(s.particles, id)
	s.emitLocked(domain.OpParticleRemove, id)
}

func (s *Scene) AddPulseRing(r domain.PulseRing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rings[r.ID] = r
	s.emitLocked(domain.OpRingAdd, r)
}

func (s *Scene) RemovePulseRing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rings[id]; !ok {
		return
	}
	delete(s.rings, id)
	s.emitLocked(domain.OpRingRemove, id)
}

func (s *Scene) SetReactive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactive = active
	s.emitLocked(domain.OpReactive, active)
}

func (s *Scene) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
	s.emitLocked(domain.OpLoading, loading)
}

func (s *Scene) ClearResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message, s.mood, s.song = "", "", nil
	s.emitLocked(domain.OpResultsClear, nil)
}

// ShowMessage replaces whatever the results area holds with text.
func (s *Scene) ShowMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message, s.mood, s.song = text, "", nil
	s.emitLocked(domain.OpMessage, text)
}

func (s *Scene) ShowMood(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mood = text
	s.emitLocked(domain.OpMood, text)
}

func (s *Scene) ShowSongInfo(info domain.SongInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.song = &info
	s.emitLocked(domain.OpSongInfo, info)
}

// Snapshot copies the current state, for clients that join mid-session.
func (s *Scene) Snapshot() domain.SceneSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.SceneSnapshot{
		Background: s.background,
		TextColor:  s.textColor,
		Ambient:    append([]domain.AmbientShape(nil), s.ambient...),
		Particles:  make([]domain.Particle, 0, len(s.particles)),
		Rings:      make([]domain.PulseRing, 0, len(s.rings)),
		Reactive:   s.reactive,
		Loading:    s.loading,
		Message:    s.message,
		Mood:       s.mood,
	}
	for _, p := range s.particles {
		snap.Particles = append(snap.Particles, p)
	}
	for _, r := range s.rings {
		snap.Rings = append(snap.Rings, r)
	}
	if s.song != nil {
		song := *s.song
		snap.Song = &song
	}
	return snap
}
