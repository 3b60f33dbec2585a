package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/textmatch"
)

// SearchTrack returns the top catalog hit for a free-text query, or nil when
// Spotify has nothing.
func (c *Client) SearchTrack(ctx context.Context, query string) (*domain.CatalogTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	params := searchURL.Query()
	params.Set("q", textmatch.NormalizeOr(query))
	params.Set("type", "track")
	params.Set("limit", "1")
	searchURL.RawQuery = params.Encode()

	log.Debug().Str("url", searchURL.String()).Msg("spotify adapter: search request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}
	if len(body.Tracks.Items) == 0 {
		log.Debug().Str("query", query).Msg("spotify adapter: no track found")
		return nil, nil
	}

	top := body.Tracks.Items[0]
	return &domain.CatalogTrack{
		ID:         top.ID,
		Title:      top.Name,
		Artist:     top.artistLine(),
		PreviewURL: top.preview(),
		Artwork:    top.artwork(),
	}, nil
}
