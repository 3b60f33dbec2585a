package domain

import (
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Palette is an ordered list of #RRGGBB colors. Order is visual order: the
// first entry is the primary background and particle tint.
type Palette []string

// MoodPalette is what the palette collaborator returns for a song.
type MoodPalette struct {
	Palette         Palette `json:"palette"`
	MoodDescription string  `json:"moodDescription"`
}

// IsHexColor reports whether s has the #RRGGBB shape.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// NewPalette keeps the well-formed colors of raw, in order, lower-cased.
func NewPalette(raw []string) Palette {
	p := make(Palette, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if IsHexColor(c) {
			p = append(p, strings.ToLower(c))
		}
	}
	return p
}

// Empty reports the "no result" state. Color dependent rendering must be
// suppressed for an empty palette.
func (p Palette) Empty() bool {
	return len(p) == 0
}

// Primary returns the first color, or "" for an empty palette.
func (p Palette) Primary() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Secondary returns the second color, falling back to the primary.
func (p Palette) Secondary() string {
	if len(p) < 2 {
		return p.Primary()
	}
	return p[1]
}
