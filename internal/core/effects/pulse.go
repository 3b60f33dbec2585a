package effects

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

// BeatInterval converts a tempo into the time between beats, rounded to the
// millisecond. ok is false for tempos that cannot drive a timer.
func BeatInterval(bpm float64) (time.Duration, bool) {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 {
		return 0, false
	}
	ms := math.Round(60000 / bpm)
	if ms < 1 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// PulseEngine drives the beat rings of one preview control.
//
// Idle -> Active on PlaybackStarted; Active -> Idle on PlaybackPaused or
// PlaybackEnded. At most one ring timer exists at a time.
type PulseEngine struct {
	surface ports.Surface
	sched   ports.Scheduler
	tempo   ports.TempoProvider
	track   domain.TrackRef
	color   func() string
	tuning  Tuning

	mu     sync.Mutex
	active bool
	closed bool
	epoch  uint64
	timer  ports.Timer
	bpm    float64
}

// NewPulseEngine builds an idle engine. color is read on every burst and
// should return the current background primary.
func NewPulseEngine(surface ports.Surface, sched ports.Scheduler, tempo ports.TempoProvider, track domain.TrackRef, color func() string, tuning Tuning) *PulseEngine {
	return &PulseEngine{
		surface: surface,
		sched:   sched,
		tempo:   tempo,
		track:   track,
		color:   color,
		tuning:  tuning.Normalized(),
	}
}

// HandleEvent applies a playback event. It blocks for the tempo lookup on the
// first PlaybackStarted; ctx bounds that lookup.
func (p *PulseEngine) HandleEvent(ctx context.Context, ev domain.PlaybackEvent) {
	switch ev {
	case domain.PlaybackStarted:
		p.activate(ctx)
	case domain.PlaybackPaused, domain.PlaybackEnded:
		p.deactivate()
	}
}

// Active reports whether playback is considered running.
func (p *PulseEngine) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Pulsing reports whether a ring timer is running.
func (p *PulseEngine) Pulsing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timer != nil
}

// Close deactivates the engine for good. Later events are ignored.
func (p *PulseEngine) Close() {
	p.deactivate()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *PulseEngine) activate(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.stopTimerLocked()
	p.epoch++
	epoch := p.epoch
	p.active = true
	p.surface.SetReactive(true)
	bpm := p.bpm
	p.mu.Unlock()

	if bpm <= 0 {
		bpm = p.lookupTempo(ctx)
	}
	interval, ok := BeatInterval(bpm)
	if !ok {
		log.Debug().Str("catalogId", p.track.CatalogID).Float64("bpm", bpm).Msg("no usable tempo, pulse sync disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A pause or a newer play may have landed during the lookup.
	if p.closed || !p.active || p.epoch != epoch {
		return
	}
	p.bpm = bpm
	p.timer = p.sched.Every(interval, func() { p.burst(epoch) })
	log.Debug().Float64("bpm", bpm).Dur("interval", interval).Msg("pulse sync started")
}

func (p *PulseEngine) deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.stopTimerLocked()
	if p.active {
		p.active = false
		p.surface.SetReactive(false)
	}
}

func (p *PulseEngine) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *PulseEngine) lookupTempo(ctx context.Context) float64 {
	if p.tempo == nil {
		return 0
	}
	bpm, err := p.tempo.GetTempo(ctx, p.track)
	if err != nil {
		log.Warn().Err(err).Str("catalogId", p.track.CatalogID).Msg("tempo lookup failed")
		return 0
	}
	return bpm
}

func (p *PulseEngine) burst(epoch uint64) {
	p.mu.Lock()
	if p.timer == nil || p.epoch != epoch {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	color := p.color()
	for i := 0; i < p.tuning.RingBurstSize; i++ {
		ring := domain.PulseRing{
			ID:       uuid.NewString(),
			Color:    color,
			Delay:    p.tuning.RingStagger * time.Duration(i),
			Duration: p.tuning.RingDuration,
		}
		p.surface.AddPulseRing(ring)
		id := ring.ID
		p.sched.After(ring.Delay+ring.Duration, func() { p.surface.RemovePulseRing(id) })
	}
}
