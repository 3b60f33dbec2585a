package ollama

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
)

var jsonArrayPattern = regexp.MustCompile(`\[[^\]]+\]`)

// ParseMoodReply extracts the palette and mood sentence from a model reply.
//
// The palette is the first JSON array in the text, filtered to #RRGGBB
// entries. The mood is the first non-blank line that holds neither '#' nor '['.
func ParseMoodReply(text string) domain.MoodPalette {
	var mood domain.MoodPalette

	if raw := jsonArrayPattern.FindString(text); raw != "" {
		var colors []string
		if err := json.Unmarshal([]byte(raw), &colors); err == nil {
			mood.Palette = domain.NewPalette(colors)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "#[") {
			continue
		}
		mood.MoodDescription = line
		break
	}
	return mood
}
