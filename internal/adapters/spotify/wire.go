package spotify

import "strings"

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PreviewURL *string         `json:"preview_url"`
	Artists    []spotifyArtist `json:"artists"`
	Album      struct {
		Images []spotifyImage `json:"images"`
	} `json:"album"`
}

type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type audioFeatures struct {
	ID    string  `json:"id"`
	Tempo float64 `json:"tempo"`
}

func (t spotifyTrack) artistLine() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func (t spotifyTrack) artwork() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

func (t spotifyTrack) preview() string {
	if t.PreviewURL == nil {
		return ""
	}
	return *t.PreviewURL
}
