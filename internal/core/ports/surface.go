package ports

import (
	"time"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// Surface is the render surface the core draws on. Calls must be safe for
// concurrent use; timer callbacks and request goroutines share it.
type Surface interface {
	SetBackground(colorA, colorB string)
	SetTextColor(hex string)

	ClearAmbientShapes()
	AddAmbientShape(s domain.AmbientShape)

	AddParticle(p domain.Particle)
	RemoveParticle(id string)

	AddPulseRing(r domain.PulseRing)
	RemovePulseRing(id string)
	SetReactive(active bool)

	SetLoading(loading bool)
	ClearResults()
	ShowMessage(text string)
	ShowMood(text string)
	ShowSongInfo(info domain.SongInfo)
}

// PlaybackSource delivers playback events of one preview control to its
// subscribers. The returned func removes the subscription.
type PlaybackSource interface {
	Subscribe(controlID string, fn func(domain.PlaybackEvent)) (unsubscribe func())
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks later. Every repeats until stopped; After fires
// once.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
	After(d time.Duration, fn func()) Timer
}
