package domain

import "testing"

func TestParsePlaybackEvent(t *testing.T) {
	tests := []struct {
		input   string
		want    PlaybackEvent
		wantErr bool
	}{
		{input: "play", want: PlaybackStarted},
		{input: "playing", want: PlaybackStarted},
		{input: "PAUSE", want: PlaybackPaused},
		{input: " ended ", want: PlaybackEnded},
		{input: "bogus", want: PlaybackUnknown, wantErr: true},
		{input: "", want: PlaybackUnknown, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePlaybackEvent(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v, got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPlaybackEvent_String(t *testing.T) {
	for ev, want := range map[PlaybackEvent]string{
		PlaybackStarted: "play",
		PlaybackPaused:  "pause",
		PlaybackEnded:   "ended",
		PlaybackUnknown: "unknown",
	} {
		if got := ev.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", ev, got, want)
		}
	}
}
