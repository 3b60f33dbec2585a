package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

func TestBus_PublishRoutesByControl(t *testing.T) {
	bus := NewBus()
	var a, b []domain.PlaybackEvent
	bus.Subscribe("ctl-a", func(ev domain.PlaybackEvent) { a = append(a, ev) })
	bus.Subscribe("ctl-b", func(ev domain.PlaybackEvent) { b = append(b, ev) })

	require.True(t, bus.Publish("ctl-a", domain.PlaybackStarted))
	require.True(t, bus.Publish("ctl-a", domain.PlaybackPaused))

	assert.Equal(t, []domain.PlaybackEvent{domain.PlaybackStarted, domain.PlaybackPaused}, a)
	assert.Empty(t, b)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe("ctl", func(domain.PlaybackEvent) { calls++ })
	keep := bus.Subscribe("ctl", func(domain.PlaybackEvent) {})
	defer keep()

	unsub()
	unsub()

	assert.Equal(t, 1, bus.Subscribers("ctl"))
	bus.Publish("ctl", domain.PlaybackStarted)
	assert.Equal(t, 0, calls)
}

func TestBus_PublishWithoutSubscriber(t *testing.T) {
	bus := NewBus()
	unsub := bus.Subscribe("old", func(domain.PlaybackEvent) {})
	unsub()

	assert.False(t, bus.Publish("old", domain.PlaybackEnded))
	assert.Equal(t, 0, bus.Subscribers("old"))
}

func TestBus_HandlerMaySubscribe(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("ctl", func(domain.PlaybackEvent) {
		bus.Subscribe("other", func(domain.PlaybackEvent) {})
	})

	assert.NotPanics(t, func() { bus.Publish("ctl", domain.PlaybackStarted) })
	assert.Equal(t, 1, bus.Subscribers("other"))
}
