package effects

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/moodboard/internal/core/domain"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
)

const (
	maxAmbientShapes = 2
	ambientBaseSize  = 300
	ambientSizeStep  = 100
	ambientBaseDrift = 40 * time.Second
	ambientDriftStep = 20 * time.Second
	ambientSpread    = 80.0
)

// AmbientLayer renders the large background blobs. Every Render replaces the
// whole set.
type AmbientLayer struct {
	surface ports.Surface

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAmbientLayer builds a layer. A nil rng gets a time-seeded one.
func NewAmbientLayer(surface ports.Surface, rng *rand.Rand) *AmbientLayer {
	if rng == nil {
		rng = newRand()
	}
	return &AmbientLayer{surface: surface, rng: rng}
}

// Render removes every ambient shape and draws one per color. Colors past the
// second are ignored.
func (l *AmbientLayer) Render(colors []string) {
	if len(colors) > maxAmbientShapes {
		colors = colors[:maxAmbientShapes]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.surface.ClearAmbientShapes()
	for i, c := range colors {
		l.surface.AddAmbientShape(domain.AmbientShape{
			ID:       uuid.NewString(),
			Index:    i,
			X:        l.rng.Float64() * ambientSpread,
			Y:        l.rng.Float64() * ambientSpread,
			Size:     ambientBaseSize + ambientSizeStep*i,
			Gradient: fmt.Sprintf("radial-gradient(circle, %s 0%%, transparent 70%%)", c),
			Drift:    ambientBaseDrift + ambientDriftStep*time.Duration(i),
		})
	}
}

// Clear removes every ambient shape.
func (l *AmbientLayer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.surface.ClearAmbientShapes()
}
