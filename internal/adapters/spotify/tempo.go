package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

// ErrTempoUnavailable means Spotify has no usable tempo for the track. The
// audio-features endpoint answers 403 for many newer applications.
var ErrTempoUnavailable = errors.New("spotify adapter: tempo unavailable")

// GetTempo reads the tempo from the audio-features endpoint.
func (c *Client) GetTempo(ctx context.Context, track domain.TrackRef) (float64, error) {
	if track.CatalogID == "" {
		return 0, fmt.Errorf("%w: no catalog id", ErrTempoUnavailable)
	}

	featuresURL := fmt.Sprintf("%s/audio-features/%s", c.baseURL, url.PathEscape(track.CatalogID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, featuresURL, nil)
	if err != nil {
		return 0, fmt.Errorf("spotify adapter: failed to create features request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return 0, fmt.Errorf("spotify adapter: features request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusNotFound:
		log.Warn().Str("trackId", track.CatalogID).Int("status", resp.StatusCode).Msg("spotify adapter: audio features not available")
		return 0, fmt.Errorf("%w: status %d", ErrTempoUnavailable, resp.StatusCode)
	default:
		return 0, fmt.Errorf("spotify adapter: features status %d", resp.StatusCode)
	}

	var features audioFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return 0, fmt.Errorf("spotify adapter: features decode error: %w", err)
	}
	if features.Tempo <= 0 {
		return 0, fmt.Errorf("%w: zero tempo", ErrTempoUnavailable)
	}
	return features.Tempo, nil
}
