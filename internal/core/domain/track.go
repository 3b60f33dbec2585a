package domain

import "strings"

// TrackMetadata is the enrichment collaborator's view of a song. Every field
// may be empty.
type TrackMetadata struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"previewUrl"`
	Artwork    string `json:"artwork"`
	Genre      string `json:"genre"`
}

// Empty reports whether the enrichment carried nothing usable.
func (m TrackMetadata) Empty() bool {
	return m == TrackMetadata{}
}

// CatalogTrack is a single catalog search hit.
type CatalogTrack struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"previewUrl"`
	Artwork    string `json:"artwork"`
}

// TrackRef identifies a track for tempo lookup. Any field may be empty.
type TrackRef struct {
	CatalogID  string
	PreviewURL string
	// AnalysisURL is the catalog's MP3 preview, which may differ from the
	// preview the user plays.
	AnalysisURL string
}

// SongInfo is the merged song block rendered under the palette.
type SongInfo struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Line       string `json:"line"`
	Artwork    string `json:"artwork"`
	ArtworkAlt string `json:"artworkAlt"`
	Genre      string `json:"genre,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	ControlID  string `json:"controlId,omitempty"`
	CatalogID  string `json:"catalogId,omitempty"`
	// Note is shown in place of the preview control when there is none.
	Note string `json:"note,omitempty"`
}

// HasPreview reports whether a preview control should be rendered.
func (s SongInfo) HasPreview() bool {
	return s.PreviewURL != ""
}

// MergeSongInfo combines the catalog hit and the enrichment result
// field by field. Title, artist and artwork prefer the catalog; the preview
// prefers the enrichment source. The request values are the last resort for
// title and artist. ok is false when neither source returned anything.
func MergeSongInfo(title, artist string, enriched TrackMetadata, catalog *CatalogTrack) (SongInfo, bool) {
	var cat CatalogTrack
	if catalog != nil {
		cat = *catalog
	}
	if enriched.Empty() && cat == (CatalogTrack{}) {
		return SongInfo{}, false
	}

	info := SongInfo{
		Title:      firstNonEmpty(cat.Title, enriched.Title, title),
		Artist:     firstNonEmpty(cat.Artist, enriched.Artist, artist),
		Artwork:    firstNonEmpty(cat.Artwork, enriched.Artwork),
		PreviewURL: firstNonEmpty(enriched.PreviewURL, cat.PreviewURL),
		Genre:      enriched.Genre,
		CatalogID:  cat.ID,
	}
	info.Line = info.Title + " – " + info.Artist
	info.ArtworkAlt = info.Title + " artwork"
	return info, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
