// Package tempo combines several tempo sources into one.
package tempo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

var ErrNoTempo = errors.New("tempo: no provider returned a usable tempo")

// Source is a named tempo provider.
type Source struct {
	Name     string
	Provider ports.TempoProvider
}

// Chain asks its sources in order and returns the first positive, finite bpm.
type Chain struct {
	sources []Source
}

var _ ports.TempoProvider = (*Chain)(nil)

func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) GetTempo(ctx context.Context, track domain.TrackRef) (float64, error) {
	var errs []error
	for _, s := range c.sources {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		bpm, err := s.Provider.GetTempo(ctx, track)
		if err != nil {
			log.Debug().Err(err).Str("source", s.Name).Msg("tempo source failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
			errs = append(errs, fmt.Errorf("%s: unusable bpm %v", s.Name, bpm))
			continue
		}
		return bpm, nil
	}
	return 0, errors.Join(append([]error{ErrNoTempo}, errs...)...)
}
