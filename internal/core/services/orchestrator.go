package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/moodboard/internal/core/colormath"
	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/effects"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

// User-facing texts.
const (
	MessageMissingInput = "Please enter both title and artist."
	MessageNoPalette    = "Could not generate a palette."
	MessageFailure      = "Something went wrong. Try again."
	MessageNoPreview    = "No preview available."
)

// Neutral background shown while a generation is loading.
const (
	loadingColorA = "#111111"
	loadingColorB = "#222222"
)

// Collaborators groups the external services a generation depends on. Any of
// them may be nil; a missing collaborator behaves like one that always fails.
type Collaborators struct {
	Palette  ports.PaletteGenerator
	Enricher ports.MetadataEnricher
	Catalog  ports.CatalogSearcher
	Tempo    ports.TempoProvider
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder persists every successful moodboard through r.
func WithRecorder(r ports.MoodboardRecorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithTuning sets the initial effect tuning.
func WithTuning(t effects.Tuning) Option {
	return func(o *Orchestrator) { o.tuning = t.Normalized() }
}

// WithNow overrides the clock used for moodboard timestamps.
func WithNow(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns the live moodboard session. Each Generate call replaces
// the previous session; results of a replaced call never reach the surface.
type Orchestrator struct {
	collab   Collaborators
	surface  ports.Surface
	playback ports.PlaybackSource
	sched    ports.Scheduler
	recorder ports.MoodboardRecorder
	now      func() time.Time

	mu      sync.Mutex
	seq     uint64
	tuning  effects.Tuning
	live    *session
	current *domain.Moodboard
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(collab Collaborators, surface ports.Surface, playback ports.PlaybackSource, sched ports.Scheduler, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		collab:   collab,
		surface:  surface,
		playback: playback,
		sched:    sched,
		now:      time.Now,
		tuning:   effects.DefaultTuning(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate builds the moodboard for a song and makes it the live session.
//
// It returns domain.ErrInvalidInput for a blank title or artist,
// domain.ErrSuperseded when a newer call started meanwhile,
// domain.ErrEmptyPalette when no colors came back and
// domain.ErrGenerationFailed when generation panicked.
func (o *Orchestrator) Generate(ctx context.Context, title, artist string) (mb domain.Moodboard, err error) {
	title, artist = strings.TrimSpace(title), strings.TrimSpace(artist)
	if title == "" || artist == "" {
		return domain.Moodboard{}, domain.ErrInvalidInput
	}

	sess, callCtx := o.begin(ctx, title, artist)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Uint64("seq", sess.seq).Str("title", title).Msg("generation panicked")
			o.ifCurrent(sess.seq, func() {
				sess.teardown()
				o.current = nil
				o.surface.ShowMessage(MessageFailure)
				o.surface.SetLoading(false)
			})
			mb, err = domain.Moodboard{}, fmt.Errorf("service: %v: %w", r, domain.ErrGenerationFailed)
		}
	}()

	var (
		meta domain.TrackMetadata
		hit  *domain.CatalogTrack
		g    errgroup.Group
	)
	g.Go(func() error {
		meta = o.enrich(callCtx, title, artist)
		return nil
	})
	g.Go(func() error {
		hit = o.search(callCtx, title+" "+artist)
		return nil
	})

	mood := o.palette(callCtx, title, artist)
	if !o.isCurrent(sess.seq) {
		return domain.Moodboard{}, domain.ErrSuperseded
	}

	if mood.Palette.Empty() {
		sess.callCancel()
		_ = g.Wait()
		applied := o.ifCurrent(sess.seq, func() {
			o.surface.ShowMessage(MessageNoPalette)
			o.surface.SetLoading(false)
		})
		if !applied {
			return domain.Moodboard{}, domain.ErrSuperseded
		}
		return domain.Moodboard{}, domain.ErrEmptyPalette
	}

	_ = g.Wait()

	applied := o.ifCurrent(sess.seq, func() {
		mb = o.applyLocked(sess, mood, meta, hit)
	})
	if !applied {
		return domain.Moodboard{}, domain.ErrSuperseded
	}

	if o.recorder != nil && !o.recorder.Record(mb) {
		log.Warn().Str("id", mb.ID).Msg("history queue full, moodboard not recorded")
	}
	return mb, nil
}

// Regenerate repeats the last accepted Generate call.
func (o *Orchestrator) Regenerate(ctx context.Context) (domain.Moodboard, error) {
	o.mu.Lock()
	live := o.live
	o.mu.Unlock()
	if live == nil {
		return domain.Moodboard{}, domain.ErrNothingToRegenerate
	}
	return o.Generate(ctx, live.title, live.artist)
}

// Stop tears down the live session and invalidates any call in flight.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.live.teardown()
	o.live = nil
	o.current = nil
}

// Current returns the moodboard of the live session, if it finished.
func (o *Orchestrator) Current() (domain.Moodboard, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return domain.Moodboard{}, false
	}
	return *o.current, true
}

// SetTuning changes effect tuning for sessions started afterwards.
func (o *Orchestrator) SetTuning(t effects.Tuning) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tuning = t.Normalized()
}

// begin allocates a sequence number, releases the previous session and
// resets the surface to the loading state.
func (o *Orchestrator) begin(ctx context.Context, title, artist string) (*session, context.Context) {
	callCtx, callCancel := context.WithCancel(ctx)
	life, lifeCancel := context.WithCancel(context.WithoutCancel(ctx))

	o.mu.Lock()
	defer o.mu.Unlock()

	o.seq++
	prev := o.live
	sess := &session{
		seq:        o.seq,
		title:      title,
		artist:     artist,
		callCancel: callCancel,
		life:       life,
		lifeCancel: lifeCancel,
		particles:  effects.NewParticleEmitter(o.surface, o.sched, o.tuning, nil),
		ambient:    effects.NewAmbientLayer(o.surface, nil),
	}
	o.live = sess
	o.current = nil
	prev.teardown()

	o.surface.SetLoading(true)
	o.surface.ClearResults()
	o.surface.SetBackground(loadingColorA, loadingColorB)
	return sess, callCtx
}

func (o *Orchestrator) isCurrent(seq uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seq == seq
}

// ifCurrent runs fn under the orchestrator lock when seq is still the live
// session. It reports whether fn ran.
func (o *Orchestrator) ifCurrent(seq uint64, fn func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq != seq {
		return false
	}
	fn()
	return true
}

func (o *Orchestrator) applyLocked(sess *session, mood domain.MoodPalette, meta domain.TrackMetadata, hit *domain.CatalogTrack) domain.Moodboard {
	primary, secondary := mood.Palette.Primary(), mood.Palette.Secondary()

	o.surface.SetBackground(primary, secondary)
	textColor := colormath.ContrastTextColor(primary, secondary)
	o.surface.SetTextColor(textColor)

	sess.ambient.Render([]string{
		colormath.WithAlpha(primary, o.tuning.AmbientAlpha),
		colormath.WithAlpha(secondary, o.tuning.AmbientAlpha),
	})
	sess.particles.Start(primary)

	if mood.MoodDescription != "" {
		o.surface.ShowMood(mood.MoodDescription)
	}

	mb := domain.Moodboard{
		ID:              uuid.NewString(),
		Seq:             sess.seq,
		Title:           sess.title,
		Artist:          sess.artist,
		Palette:         mood.Palette,
		MoodDescription: mood.MoodDescription,
		TextColor:       textColor,
		CreatedAt:       o.now(),
	}

	if info, ok := domain.MergeSongInfo(sess.title, sess.artist, meta, hit); ok {
		if info.HasPreview() {
			info.ControlID = uuid.NewString()
			track := domain.TrackRef{CatalogID: info.CatalogID, PreviewURL: info.PreviewURL}
			if hit != nil {
				track.AnalysisURL = hit.PreviewURL
			}
			o.bindPulseLocked(sess, info.ControlID, track, primary)
		} else {
			info.Note = MessageNoPreview
		}
		o.surface.ShowSongInfo(info)
		mb.Song = &info
	}

	o.surface.SetLoading(false)
	o.current = &mb
	return mb
}

func (o *Orchestrator) bindPulseLocked(sess *session, controlID string, track domain.TrackRef, primary string) {
	if o.playback == nil {
		return
	}
	engine := effects.NewPulseEngine(o.surface, o.sched, o.collab.Tempo, track, func() string { return primary }, o.tuning)
	life := sess.life
	unsub := o.playback.Subscribe(controlID, func(ev domain.PlaybackEvent) {
		engine.HandleEvent(life, ev)
	})
	sess.pulses = append(sess.pulses, engine)
	sess.unsubs = append(sess.unsubs, unsub)
}

// Collaborator calls. Failures and panics degrade to the empty value.

func (o *Orchestrator) palette(ctx context.Context, title, artist string) (mood domain.MoodPalette) {
	if o.collab.Palette == nil {
		return domain.MoodPalette{}
	}
	defer degrade("palette", &mood)
	mood, err := o.collab.Palette.GeneratePalette(ctx, title, artist)
	if err != nil {
		log.Warn().Err(err).Str("title", title).Str("artist", artist).Msg("palette generation failed")
		return domain.MoodPalette{}
	}
	return mood
}

func (o *Orchestrator) enrich(ctx context.Context, title, artist string) (meta domain.TrackMetadata) {
	if o.collab.Enricher == nil {
		return domain.TrackMetadata{}
	}
	defer degrade("enrichment", &meta)
	meta, err := o.collab.Enricher.Enrich(ctx, title, artist)
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("metadata enrichment failed")
		return domain.TrackMetadata{}
	}
	return meta
}

func (o *Orchestrator) search(ctx context.Context, query string) (hit *domain.CatalogTrack) {
	if o.collab.Catalog == nil {
		return nil
	}
	defer degrade("catalog", &hit)
	hit, err := o.collab.Catalog.SearchTrack(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("catalog search failed")
		return nil
	}
	return hit
}

// degrade turns a collaborator panic into its zero result.
func degrade[T any](name string, out *T) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Str("collaborator", name).Msg("collaborator panicked")
		var zero T
		*out = zero
	}
}
