// Package sqlite provides a SQLite-backed implementation of the moodboard
// history repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var _ ports.MoodboardRepository = (*Adapter)(nil)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewAdapter opens the database at storagePath and runs the migrations.
// ":memory:" gives a private in-memory database.
func NewAdapter(storagePath string) (*Adapter, error) {
	sqlDB, err := sql.Open("sqlite3", storagePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	// Each connection to :memory: is its own database.
	if storagePath == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(4)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	return &Adapter{db: db, sqlDB: sqlDB}, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.sqlDB.Close()
}

// Ping reports whether the database is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.sqlDB.PingContext(ctx)
}

// Save inserts the moodboard, replacing a stored one with the same id.
func (a *Adapter) Save(ctx context.Context, m domain.Moodboard) error {
	rec := toRecord(m)
	if err := a.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to save moodboard: %w", err)
	}
	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Moodboard, error) {
	var rec moodboardRecord
	err := a.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Moodboard{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Moodboard{}, fmt.Errorf("failed to load moodboard: %w", err)
	}
	return rec.toDomain(), nil
}

// ListRecent returns the newest moodboards first. limit is clamped to
// [1, 100]; zero selects the default page size.
func (a *Adapter) ListRecent(ctx context.Context, limit int) ([]domain.Moodboard, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	var recs []moodboardRecord
	err := a.db.WithContext(ctx).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list moodboards: %w", err)
	}

	out := make([]domain.Moodboard, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toDomain())
	}
	return out, nil
}
