// Package effects implements the moving parts of the moodboard: the particle
// emitter, the ambient shape layer and the tempo-synchronized pulse engine.
// Every engine draws through ports.Surface and keeps time through
// ports.Scheduler.
package effects

import "time"

// Tuning holds the knobs of all three effects.
type Tuning struct {
	ParticleCadence   time.Duration
	ParticleBatchMin  int
	ParticleBatchMax  int
	ParticleLifespan  time.Duration
	ParticleMaxJitter int
	ParticleStartY    float64
	ParticleMinSize   float64
	ParticleMaxSize   float64

	RingBurstSize int
	RingStagger   time.Duration
	RingDuration  time.Duration

	AmbientAlpha uint8
}

// DefaultTuning returns the reference settings.
func DefaultTuning() Tuning {
	return Tuning{
		ParticleCadence:   300 * time.Millisecond,
		ParticleBatchMin:  2,
		ParticleBatchMax:  5,
		ParticleLifespan:  14 * time.Second,
		ParticleMaxJitter: 30,
		ParticleStartY:    100,
		ParticleMinSize:   4,
		ParticleMaxSize:   12,

		RingBurstSize: 4,
		RingStagger:   150 * time.Millisecond,
		RingDuration:  1200 * time.Millisecond,

		AmbientAlpha: 0x40,
	}
}

// Normalized replaces unusable values with the defaults.
func (t Tuning) Normalized() Tuning {
	d := DefaultTuning()
	if t.ParticleCadence <= 0 {
		t.ParticleCadence = d.ParticleCadence
	}
	if t.ParticleBatchMin <= 0 {
		t.ParticleBatchMin = d.ParticleBatchMin
	}
	if t.ParticleBatchMax < t.ParticleBatchMin {
		t.ParticleBatchMax = max(t.ParticleBatchMin, d.ParticleBatchMax)
	}
	if t.ParticleLifespan <= 0 {
		t.ParticleLifespan = d.ParticleLifespan
	}
	if t.ParticleMaxJitter <= 0 {
		t.ParticleMaxJitter = d.ParticleMaxJitter
	}
	if t.ParticleStartY <= 0 {
		t.ParticleStartY = d.ParticleStartY
	}
	if t.ParticleMinSize <= 0 {
		t.ParticleMinSize = d.ParticleMinSize
	}
	if t.ParticleMaxSize < t.ParticleMinSize {
		t.ParticleMaxSize = t.ParticleMinSize
	}
	if t.RingBurstSize <= 0 {
		t.RingBurstSize = d.RingBurstSize
	}
	if t.RingStagger < 0 {
		t.RingStagger = d.RingStagger
	}
	if t.RingDuration <= 0 {
		t.RingDuration = d.RingDuration
	}
	if t.AmbientAlpha == 0 {
		t.AmbientAlpha = d.AmbientAlpha
	}
	return t
}
