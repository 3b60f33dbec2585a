package domain

import "time"

// Moodboard is the outcome of one generation, as shown to the user and
// persisted to history.
type Moodboard struct {
	ID              string    `json:"id"`
	Seq             uint64    `json:"seq"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	Palette         Palette   `json:"palette"`
	MoodDescription string    `json:"moodDescription,omitempty"`
	TextColor       string    `json:"textColor"`
	Song            *SongInfo `json:"song,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
