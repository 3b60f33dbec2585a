package domain

// Render operation names streamed to render clients.
const (
	OpBackground     = "background"
	OpTextColor      = "text-color"
	OpAmbientClear   = "ambient-clear"
	OpAmbientAdd     = "ambient-add"
	OpParticleAdd    = "particle-add"
	OpParticleRemove = "particle-remove"
	OpRingAdd        = "ring-add"
	OpRingRemove     = "ring-remove"
	OpReactive       = "reactive"
	OpLoading        = "loading"
	OpResultsClear   = "results-clear"
	OpMessage        = "message"
	OpMood           = "mood"
	OpSongInfo       = "song-info"
)

// RenderOp is a single mutation of the render surface.
type RenderOp struct {
	Op   string `json:"op"`
	Data any    `json:"data,omitempty"`
}

// Background carries the two gradient custom colors.
type Background struct {
	ColorA string `json:"colorA"`
	ColorB string `json:"colorB"`
}

// SceneSnapshot is the full state of the render surface at a point in time.
type SceneSnapshot struct {
	Background Background     `json:"background"`
	TextColor  string         `json:"textColor"`
	Ambient    []AmbientShape `json:"ambient"`
	Particles  []Particle     `json:"particles"`
	Rings      []PulseRing    `json:"rings"`
	Reactive   bool           `json:"reactive"`
	Loading    bool           `json:"loading"`
	Message    string         `json:"message,omitempty"`
	Mood       string         `json:"mood,omitempty"`
	Song       *SongInfo      `json:"song,omitempty"`
}
