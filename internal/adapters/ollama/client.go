// Package ollama provides an adapter for the Ollama LLM service.
// It asks a local Ollama instance for the mood of a song and a matching
// color palette, and parses the free-form reply into a domain.MoodPalette.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1:8b"
)

var _ ports.PaletteGenerator = (*Client)(nil)

const moodPrompt = `You are a creative assistant that translates music into visual color themes.

A user is analyzing the song %q by %q. Based on the song's emotional tone, mood, and sonic atmosphere (consider tempo, instrumentation, and genre), generate a short descriptive sentence of the song's mood. Then return a list of 4-5 hex color codes that best capture the emotion and energy of the music. These colors should be suitable for use in a relaxing, visually rich moodboard app.

Return only the color hex codes in a JSON array, like: ["#112233", "#445566", "#778899"]`

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// NewClient builds a client. Empty arguments select the local defaults.
func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func buildMoodPrompt(title, artist string) string {
	return fmt.Sprintf(moodPrompt, title, artist)
}

// GeneratePalette asks the model for the mood of a song. A reply without a
// usable color list yields an empty palette, not an error.
func (c *Client) GeneratePalette(ctx context.Context, title, artist string) (domain.MoodPalette, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Messages: []chatMessage{
			{Role: "user", Content: buildMoodPrompt(title, artist)},
		},
		Options: chatOptions{Temperature: 0.7, NumPredict: 200},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.MoodPalette{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return domain.MoodPalette{}, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MoodPalette{}, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.MoodPalette{}, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.MoodPalette{}, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return domain.MoodPalette{}, fmt.Errorf("ollama: %s", parsed.Error)
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return domain.MoodPalette{}, fmt.Errorf("ollama: empty response")
	}

	mood := ParseMoodReply(content)
	log.Debug().
		Str("title", title).
		Int("colors", len(mood.Palette)).
		Msg("ollama: palette generated")
	return mood, nil
}
