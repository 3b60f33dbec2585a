// Package playback routes playback events reported by render clients to the
// engines subscribed to a preview control.
package playback

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

var _ ports.PlaybackSource = (*Bus)(nil)

type handler struct {
	id int
	fn func(domain.PlaybackEvent)
}

// Bus is an in-process publish/subscribe hub keyed by control id.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]handler)}
}

// Subscribe registers fn for events on controlID. The returned func removes
// the registration and is safe to call more than once.
func (b *Bus) Subscribe(controlID string, fn func(domain.PlaybackEvent)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[controlID] = append(b.subs[controlID], handler{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(controlID, id) })
	}
}

func (b *Bus) remove(controlID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.subs[controlID]
	for i, h := range hs {
		if h.id == id {
			hs = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(hs) == 0 {
		delete(b.subs, controlID)
		return
	}
	b.subs[controlID] = hs
}

// Publish delivers ev to every subscriber of controlID. It reports false when
// nobody is listening, which is the case for controls of a replaced session.
func (b *Bus) Publish(controlID string, ev domain.PlaybackEvent) bool {
	b.mu.RLock()
	hs := append([]handler(nil), b.subs[controlID]...)
	b.mu.RUnlock()

	if len(hs) == 0 {
		log.Debug().Str("controlId", controlID).Stringer("event", ev).Msg("playback: no subscriber")
		return false
	}
	for _, h := range hs {
		h.fn(ev)
	}
	return true
}

// Subscribers returns how many handlers are registered for controlID.
func (b *Bus) Subscribers(controlID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[controlID])
}
