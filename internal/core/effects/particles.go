package effects

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/moodboard/internal/core/colormath"
	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

// ParticleEmitter continuously spawns tinted particles while running. It
// owns at most one recurring timer.
type ParticleEmitter struct {
	surface ports.Surface
	sched   ports.Scheduler
	tuning  Tuning

	mu    sync.Mutex
	rng   *rand.Rand
	timer ports.Timer
	run   uint64
	base  string
}

// NewParticleEmitter builds an idle emitter. A nil rng gets a time-seeded one.
func NewParticleEmitter(surface ports.Surface, sched ports.Scheduler, tuning Tuning, rng *rand.Rand) *ParticleEmitter {
	if rng == nil {
		rng = newRand()
	}
	return &ParticleEmitter{
		surface: surface,
		sched:   sched,
		tuning:  tuning.Normalized(),
		rng:     rng,
	}
}

// Start begins emission tinted from baseColor. A running emission is
// stopped first.
func (e *ParticleEmitter) Start(baseColor string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.run++
	run := e.run
	e.base = baseColor
	e.timer = e.sched.Every(e.tuning.ParticleCadence, func() { e.tick(run) })
}

// Stop halts emission. Particles already on the surface expire on their own.
func (e *ParticleEmitter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Running reports whether an emission timer is active.
func (e *ParticleEmitter) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer != nil
}

func (e *ParticleEmitter) stopLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *ParticleEmitter) tick(run uint64) {
	e.mu.Lock()
	if e.timer == nil || e.run != run {
		e.mu.Unlock()
		return
	}
	n := e.tuning.ParticleBatchMin + e.rng.IntN(e.tuning.ParticleBatchMax-e.tuning.ParticleBatchMin+1)
	batch := make([]domain.Particle, n)
	for i := range batch {
		batch[i] = e.spawnLocked()
	}
	e.mu.Unlock()

	for _, p := range batch {
		e.surface.AddParticle(p)
		id := p.ID
		e.sched.After(p.Lifespan, func() { e.surface.RemoveParticle(id) })
	}
}

func (e *ParticleEmitter) spawnLocked() domain.Particle {
	t := e.tuning
	return domain.Particle{
		ID:       uuid.NewString(),
		X:        e.rng.Float64() * 100,
		Y:        t.ParticleStartY,
		Size:     t.ParticleMinSize + e.rng.Float64()*(t.ParticleMaxSize-t.ParticleMinSize),
		Opacity:  0.3 + e.rng.Float64()*0.5,
		Class:    domain.ShapeClasses[e.rng.IntN(len(domain.ShapeClasses))],
		Color:    Tint(e.base, e.rng.IntN(t.ParticleMaxJitter)).CSS(),
		Lifespan: t.ParticleLifespan,
	}
}

// Tint shifts base by jitter toward the middle of the brightness range:
// lighter for dark colors, darker for light ones.
func Tint(base string, jitter int) colormath.RGB {
	if colormath.IsDark(base) {
		return colormath.AdjustBrightness(base, jitter)
	}
	return colormath.AdjustBrightness(base, -jitter)
}

func newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
