package sqlite

import (
	"time"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// moodboardRecord is the persisted form of a domain.Moodboard.
type moodboardRecord struct {
	ID              string           `gorm:"primaryKey"`
	Seq             uint64           `gorm:"not null"`
	Title           string           `gorm:"not null;index:idx_moodboards_song,priority:1"`
	Artist          string           `gorm:"not null;index:idx_moodboards_song,priority:2"`
	Palette         []string         `gorm:"serializer:json;type:text;not null"`
	MoodDescription string           `gorm:"type:text"`
	TextColor       string           `gorm:"not null"`
	Song            *domain.SongInfo `gorm:"serializer:json;type:text"`
	CreatedAt       time.Time        `gorm:"index:idx_moodboards_created,sort:desc;not null"`
}

func (moodboardRecord) TableName() string { return "moodboards" }

func toRecord(m domain.Moodboard) moodboardRecord {
	return moodboardRecord{
		ID:              m.ID,
		Seq:             m.Seq,
		Title:           m.Title,
		Artist:          m.Artist,
		Palette:         []string(m.Palette),
		MoodDescription: m.MoodDescription,
		TextColor:       m.TextColor,
		Song:            m.Song,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

func (r moodboardRecord) toDomain() domain.Moodboard {
	return domain.Moodboard{
		ID:              r.ID,
		Seq:             r.Seq,
		Title:           r.Title,
		Artist:          r.Artist,
		Palette:         domain.Palette(r.Palette),
		MoodDescription: r.MoodDescription,
		TextColor:       r.TextColor,
		Song:            r.Song,
		CreatedAt:       r.CreatedAt,
	}
}
