package domain

import (
	"fmt"
	"strings"
)

// PlaybackEvent is a state change reported by a preview control.
type PlaybackEvent int

const (
	PlaybackUnknown PlaybackEvent = iota
	PlaybackStarted
	PlaybackPaused
	PlaybackEnded
)

func (e PlaybackEvent) String() string {
	switch e {
	case PlaybackStarted:
		return "play"
	case PlaybackPaused:
		return "pause"
	case PlaybackEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ParsePlaybackEvent maps the browser's media event names onto PlaybackEvent.
func ParsePlaybackEvent(name string) (PlaybackEvent, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "play", "playing":
		return PlaybackStarted, nil
	case "pause":
		return PlaybackPaused, nil
	case "ended":
		return PlaybackEnded, nil
	default:
		return PlaybackUnknown, fmt.Errorf("domain: unknown playback event %q", name)
	}
}
