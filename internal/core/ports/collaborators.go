package ports

import (
	"context"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// PaletteGenerator turns a song into a mood palette. Implementations report
// failures as errors; the core degrades them to an empty palette.
type PaletteGenerator interface {
	GeneratePalette(ctx context.Context, title, artist string) (domain.MoodPalette, error)
}

// MetadataEnricher looks up preview, artwork and genre for a song.
type MetadataEnricher interface {
	Enrich(ctx context.Context, title, artist string) (domain.TrackMetadata, error)
}

// CatalogSearcher resolves a free-text query to at most one catalog track.
// A nil track with a nil error means nothing matched.
type CatalogSearcher interface {
	SearchTrack(ctx context.Context, query string) (*domain.CatalogTrack, error)
}

// TempoProvider returns the beats-per-minute of a track.
type TempoProvider interface {
	GetTempo(ctx context.Context, track domain.TrackRef) (float64, error)
}

// MoodboardRepository persists generated moodboards.
type MoodboardRepository interface {
	Save(ctx context.Context, m domain.Moodboard) error
	GetByID(ctx context.Context, id string) (domain.Moodboard, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Moodboard, error)
}

// MoodboardRecorder accepts finished moodboards for asynchronous
// persistence. Record must not block; false means the moodboard was dropped.
type MoodboardRecorder interface {
	Record(m domain.Moodboard) bool
}
