// Package colormath holds the pure color helpers the moodboard derives its
// visuals from: relative luminance, text contrast selection, dark/light
// classification and per-channel brightness shifts.
package colormath

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Text colors picked by ContrastTextColor.
const (
	LightText = "#ffffff"
	DarkText  = "#111111"
)

// darkThreshold is the perceived brightness below which a color counts as dark.
const darkThreshold = 128

// RGB is an 8-bit color triplet without alpha.
type RGB struct {
	R, G, B uint8
}

// CSS renders the triplet as a CSS rgb() value.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex renders the triplet as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parse decodes a #RRGGBB string. Shorthand and alpha forms are rejected.
func parse(hex string) (colorful.Color, bool) {
	if len(hex) != 7 || !strings.HasPrefix(hex, "#") {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func rgb255(hex string) (RGB, bool) {
	c, ok := parse(hex)
	if !ok {
		return RGB{}, false
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, true
}

// Luminance returns the relative luminance of a #RRGGBB color in [0,1].
// Malformed input is treated as black.
func Luminance(hex string) float64 {
	c, ok := parse(hex)
	if !ok {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastTextColor picks a text color legible against a gradient from a to b.
func ContrastTextColor(a, b string) string {
	avg := (Luminance(a) + Luminance(b)) / 2
	if avg < 0.5 {
		return LightText
	}
	return DarkText
}

// IsDark classifies a color by perceived brightness. Anything that is not a
// #RRGGBB string is "not dark".
func IsDark(hex string) bool {
	c, ok := rgb255(hex)
	if !ok {
		return false
	}
	brightness := (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
	return brightness < darkThreshold
}

// AdjustBrightness adds delta to every channel, clamped to [0,255]. A
// negative delta darkens.
func AdjustBrightness(hex string, delta int) RGB {
	c, _ := rgb255(hex)
	return RGB{
		R: shift(c.R, delta),
		G: shift(c.G, delta),
		B: shift(c.B, delta),
	}
}

// WithAlpha appends an alpha byte to a #RRGGBB color.
func WithAlpha(hex string, alpha uint8) string {
	return fmt.Sprintf("%s%02x", strings.ToLower(hex), alpha)
}

func shift(v uint8, delta int) uint8 {
	n := int(v) + delta
	if n > 255 {
		return 255
	}
	if n < 0 {
		return 0
	}
	return uint8(n)
}
