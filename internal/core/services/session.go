package services

import (
	"context"

	"github.com/ewilliams-labs/moodboard/internal/core/effects"
)

// session holds every handle one generation owns. Only the orchestrator
// touches it, always under its mutex.
type session struct {
	seq    uint64
	title  string
	artist string

	// callCancel aborts the collaborator requests of this generation.
	callCancel context.CancelFunc
	// life bounds work triggered later by playback events.
	life       context.Context
	lifeCancel context.CancelFunc

	particles *effects.ParticleEmitter
	ambient   *effects.AmbientLayer
	pulses    []*effects.PulseEngine
	unsubs    []func()
}

// teardown releases everything the session started. Particles and rings
// already on the surface are left to expire on their own timers.
func (s *session) teardown() {
	if s == nil {
		return
	}
	s.callCancel()
	s.lifeCancel()

	s.particles.Stop()
	s.ambient.Clear()
	for _, unsub := range s.unsubs {
		unsub()
	}
	for _, p := range s.pulses {
		p.Close()
	}
	s.unsubs, s.pulses = nil, nil
}
