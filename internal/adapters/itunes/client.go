// Package itunes enriches songs with preview audio, artwork and genre from
// the iTunes Search API.
package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
	"github.com/ewilliams-labs/moodboard/internal/textmatch"
)

const (
	DefaultBaseURL = "https://itunes.apple.com"
	unknownGenre   = "unknown"
	searchLimit    = 5
)

// ErrNoResults means the search returned nothing at all.
var ErrNoResults = errors.New("itunes: no matches found")

// Collections that hold a different recording of the song.
var excludedCollection = regexp.MustCompile(`(?i)karaoke|cover|remix|tribute|live`)

var _ ports.MetadataEnricher = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	artwork    ports.CatalogSearcher
}

type searchResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []searchEntry `json:"results"`
}

type searchEntry struct {
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PreviewURL       string `json:"previewUrl"`
	ArtworkURL100    string `json:"artworkUrl100"`
	PrimaryGenreName string `json:"primaryGenreName"`
}

// NewClient builds a client. artwork, when non-nil, is asked for cover art
// when the chosen iTunes entry has none.
func NewClient(baseURL string, artwork ports.CatalogSearcher) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		artwork:    artwork,
	}
}

func searchTerm(title, artist string) string {
	term := strings.NewReplacer("-", " ", "_", " ").Replace(title + " " + artist)
	return strings.TrimSpace(term)
}

// Enrich looks the song up and returns the metadata of the best entry.
func (c *Client) Enrich(ctx context.Context, title, artist string) (domain.TrackMetadata, error) {
	term := searchTerm(title, artist)

	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", "song")
	q.Set("limit", fmt.Sprint(searchLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("itunes: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("itunes: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TrackMetadata{}, fmt.Errorf("itunes: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("itunes: decode response: %w", err)
	}
	if len(body.Results) == 0 {
		return domain.TrackMetadata{}, fmt.Errorf("%w for %q", ErrNoResults, term)
	}

	best := pickEntry(title, artist, body.Results)
	if best.PreviewURL == "" {
		log.Debug().Str("term", term).Msg("itunes: no preview available")
	}

	meta := domain.TrackMetadata{
		Title:      firstNonEmpty(best.TrackName, title),
		Artist:     firstNonEmpty(best.ArtistName, artist),
		PreviewURL: best.PreviewURL,
		Artwork:    best.ArtworkURL100,
		Genre:      firstNonEmpty(best.PrimaryGenreName, unknownGenre),
	}
	if meta.Artwork == "" {
		meta.Artwork = c.fallbackArtwork(ctx, term)
	}
	return meta, nil
}

// pickEntry prefers the first studio release by the requested artist. Without
// one it takes the closest fuzzy match, and the first entry as a last resort.
func pickEntry(title, artist string, entries []searchEntry) searchEntry {
	for _, e := range entries {
		if textmatch.SameArtist(e.ArtistName, artist) && !excludedCollection.MatchString(e.CollectionName) {
			return e
		}
	}

	best, bestScore := entries[0], 0.0
	for _, e := range entries {
		if score := textmatch.Score(title, artist, e.TrackName, e.ArtistName); score > bestScore {
			best, bestScore = e, score
		}
	}
	return best
}

func (c *Client) fallbackArtwork(ctx context.Context, term string) string {
	if c.artwork == nil {
		return ""
	}
	hit, err := c.artwork.SearchTrack(ctx, term)
	if err != nil {
		log.Warn().Err(err).Str("term", term).Msg("itunes: artwork fallback failed")
		return ""
	}
	if hit == nil {
		return ""
	}
	return hit.Artwork
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
