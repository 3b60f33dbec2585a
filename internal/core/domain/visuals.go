package domain

import "time"

// ShapeClass is the visual class of a particle.
type ShapeClass string

const (
	ShapeDot   ShapeClass = "dot"
	ShapeRing  ShapeClass = "ring"
	ShapeSpark ShapeClass = "spark"
)

// ShapeClasses lists every particle class.
var ShapeClasses = []ShapeClass{ShapeDot, ShapeRing, ShapeSpark}

// Particle is a short-lived tinted element drifting up from the bottom edge.
type Particle struct {
	ID       string        `json:"id"`
	X        float64       `json:"x"` // percent of viewport width, [0,100)
	Y        float64       `json:"y"` // percent of viewport height, fixed start
	Size     float64       `json:"size"`
	Opacity  float64       `json:"opacity"`
	Class    ShapeClass    `json:"class"`
	Color    string        `json:"color"`
	Lifespan time.Duration `json:"lifespan"`
}

// PulseRing is one ring of a beat burst.
type PulseRing struct {
	ID       string        `json:"id"`
	Color    string        `json:"color"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
}

// AmbientShape is a large slow drifting blob behind everything else.
type AmbientShape struct {
	ID       string        `json:"id"`
	Index    int           `json:"index"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Size     int           `json:"size"`
	Gradient string        `json:"gradient"`
	Drift    time.Duration `json:"drift"`
}
