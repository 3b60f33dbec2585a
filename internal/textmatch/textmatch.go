// Package textmatch compares song titles and artist names coming from
// different catalogs.
package textmatch

import (
	"strings"
	"unicode"
)

// noiseTokens are release decorations that do not identify a song.
var noiseTokens = map[string]struct{}{
	"clean":      {},
	"deluxe":     {},
	"edition":    {},
	"edit":       {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"live":       {},
	"mix":        {},
	"mono":       {},
	"radio":      {},
	"remaster":   {},
	"remastered": {},
	"stereo":     {},
	"version":    {},
}

// Normalize lower-cases s, drops bracketed segments, punctuation and noise
// tokens, and collapses whitespace.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	tokens := strings.Fields(cleanSeparators(stripBracketed(strings.ToLower(s))))
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, noise := noiseTokens[tok]; !noise {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// NormalizeOr returns Normalize(s), or s itself when normalizing leaves
// nothing.
func NormalizeOr(s string) string {
	if n := Normalize(s); n != "" {
		return n
	}
	return s
}

// SameArtist reports a case-insensitive exact artist match.
func SameArtist(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Score rates how well a candidate matches the requested song, from 0 to 1.
// The title weighs 0.7 and the artist 0.3.
func Score(title, artist, candTitle, candArtist string) float64 {
	t, a := Normalize(title), Normalize(artist)
	ct, ca := Normalize(candTitle), Normalize(candArtist)
	if t == "" || a == "" || ct == "" || ca == "" {
		return 0
	}
	return 0.7*Similarity(t, ct) + 0.3*Similarity(a, ca)
}

// Similarity is 1 minus the edit distance scaled by the longer input.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(Distance(a, b))/float64(longest)
}

// Distance is the Levenshtein distance between a and b, in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func stripBracketed(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func cleanSeparators(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteRune(' ')
			space = true
		}
	}
	return b.String()
}
