// Package analysis estimates the tempo of a track from its preview audio.
package analysis

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const (
	// envelopeRate is the number of energy frames per second of audio.
	envelopeRate = 100
	minBPM       = 60
	maxBPM       = 180
	// maxSeconds caps how much of a preview is decoded.
	maxSeconds = 30
	// go-mp3 always yields 16-bit little-endian stereo.
	bytesPerFrame = 4
)

var (
	ErrNoPreview = errors.New("analysis: no preview url")
	ErrNoBeat    = errors.New("analysis: no periodic beat found")
	// ErrUnsupportedFormat is returned for previews that are not MP3, such as
	// the AAC (.m4a) previews served by iTunes.
	ErrUnsupportedFormat = errors.New("analysis: preview is not mp3")
)

// mp4Types are content types of MP4/AAC audio that go-mp3 cannot decode.
var mp4Types = map[string]bool{
	"audio/mp4":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
	"audio/aac":   true,
	"audio/aacp":  true,
	"video/mp4":   true,
}

var _ ports.TempoProvider = (*Analyzer)(nil)

// Analyzer downloads previews and estimates their tempo.
type Analyzer struct {
	httpClient *http.Client
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// GetTempo decodes the MP3 preview of track and returns its estimated bpm.
// The catalog's AnalysisURL is preferred over the played preview.
func (a *Analyzer) GetTempo(ctx context.Context, track domain.TrackRef) (float64, error) {
	url := track.AnalysisURL
	if url == "" {
		url = track.PreviewURL
	}
	if url == "" {
		return 0, ErrNoPreview
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("analysis: build request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("analysis: preview fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("analysis: preview fetch status %d", resp.StatusCode)
	}

	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mp4Types[mt] {
		return 0, fmt.Errorf("%w: content type %s", ErrUnsupportedFormat, mt)
	}
	body := bufio.NewReader(resp.Body)
	if isMP4(body) {
		return 0, ErrUnsupportedFormat
	}

	decoder, err := mp3.NewDecoder(body)
	if err != nil {
		return 0, fmt.Errorf("analysis: preview decode failed: %w", err)
	}

	env, err := Envelope(decoder, decoder.SampleRate())
	if err != nil {
		return 0, err
	}
	bpm, err := EstimateTempo(env, envelopeRate)
	if err != nil {
		return 0, err
	}
	log.Debug().Str("preview", url).Float64("bpm", bpm).Msg("analysis: tempo estimated")
	return bpm, nil
}

// isMP4 reports whether the stream starts with an ISO base media "ftyp" box.
func isMP4(r *bufio.Reader) bool {
	head, err := r.Peek(8)
	return err == nil && bytes.Equal(head[4:8], []byte("ftyp"))
}

// Envelope reads 16-bit stereo PCM from r and returns its RMS energy in
// windows of 1/envelopeRate seconds.
func Envelope(r io.Reader, sampleRate int) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("analysis: invalid sample rate %d", sampleRate)
	}
	window := sampleRate / envelopeRate
	if window == 0 {
		window = 1
	}
	limit := maxSeconds * envelopeRate

	var (
		env        []float64
		sumSquares float64
		frames     int
		frame      [bytesPerFrame]byte
	)
	for len(env) < limit {
		if _, err := io.ReadFull(r, frame[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("analysis: preview read failed: %w", err)
		}
		left := float64(int16(binary.LittleEndian.Uint16(frame[0:2])))
		right := float64(int16(binary.LittleEndian.Uint16(frame[2:4])))
		mono := (left + right) / 2
		sumSquares += mono * mono
		frames++

		if frames == window {
			env = append(env, math.Sqrt(sumSquares/float64(frames))/32768.0)
			sumSquares, frames = 0, 0
		}
	}

	if len(env) == 0 {
		return nil, fmt.Errorf("analysis: preview contains no samples")
	}
	return env, nil
}

// EstimateTempo finds the beat period of an energy envelope sampled at rate
// frames per second by autocorrelating its onset strength over the
// 60-180 bpm range.
func EstimateTempo(env []float64, rate float64) (float64, error) {
	onset := make([]float64, len(env))
	for i := 1; i < len(env); i++ {
		if d := env[i] - env[i-1]; d > 0 {
			onset[i] = d
		}
	}

	minLag := int(math.Floor(rate * 60 / maxBPM))
	maxLag := int(math.Ceil(rate * 60 / minBPM))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(onset) {
		return 0, ErrNoBeat
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := lag; i < len(onset); i++ {
			score += onset[i] * onset[i-lag]
		}
		if score > bestScore {
			bestLag, bestScore = lag, score
		}
	}
	if bestLag == 0 {
		return 0, ErrNoBeat
	}
	return rate * 60 / float64(bestLag), nil
}
