// Package config loads service settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ewilliams-labs/moodboard/internal/core/effects"
)

const (
	DefaultPath = "moodboard.yaml"
	DefaultPort = "8080"
)

type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

type SpotifyConfig struct {
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	BaseURL        string `yaml:"base_url"`
	TokenURL       string `yaml:"token_url"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms"`
}

// Enabled reports whether credentials are present.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

type ITunesConfig struct {
	BaseURL string `yaml:"base_url"`
}

type WorkerConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// EffectsConfig mirrors effects.Tuning with YAML-friendly names.
type EffectsConfig struct {
	ParticleCadence   time.Duration `yaml:"particle_cadence"`
	ParticleBatchMin  int           `yaml:"particle_batch_min"`
	ParticleBatchMax  int           `yaml:"particle_batch_max"`
	ParticleLifespan  time.Duration `yaml:"particle_lifespan"`
	ParticleMaxJitter int           `yaml:"particle_max_jitter"`
	RingBurstSize     int           `yaml:"ring_burst_size"`
	RingStagger       time.Duration `yaml:"ring_stagger"`
	RingDuration      time.Duration `yaml:"ring_duration"`
	AmbientAlpha      uint8         `yaml:"ambient_alpha"`
}

// Tuning converts the settings. Zero fields keep their default.
func (e EffectsConfig) Tuning() effects.Tuning {
	t := effects.DefaultTuning()
	setDuration(&t.ParticleCadence, e.ParticleCadence)
	setInt(&t.ParticleBatchMin, e.ParticleBatchMin)
	setInt(&t.ParticleBatchMax, e.ParticleBatchMax)
	setDuration(&t.ParticleLifespan, e.ParticleLifespan)
	setInt(&t.ParticleMaxJitter, e.ParticleMaxJitter)
	setInt(&t.RingBurstSize, e.RingBurstSize)
	setDuration(&t.RingStagger, e.RingStagger)
	setDuration(&t.RingDuration, e.RingDuration)
	if e.AmbientAlpha != 0 {
		t.AmbientAlpha = e.AmbientAlpha
	}
	return t.Normalized()
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

type Config struct {
	Port      string        `yaml:"port"`
	DBPath    string        `yaml:"db_path"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	Ollama    OllamaConfig  `yaml:"ollama"`
	Spotify   SpotifyConfig `yaml:"spotify"`
	ITunes    ITunesConfig  `yaml:"itunes"`
	Worker    WorkerConfig  `yaml:"worker"`
	Effects   EffectsConfig `yaml:"effects"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	t := effects.DefaultTuning()
	return Config{
		Port:      DefaultPort,
		DBPath:    "moodboard.db",
		LogLevel:  "info",
		LogFormat: "json",
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "llama3.1:8b",
		},
		Spotify: SpotifyConfig{
			MaxRetries:     3,
			RetryBackoffMs: 500,
		},
		Worker: WorkerConfig{Workers: 2, QueueSize: 64},
		Effects: EffectsConfig{
			ParticleCadence:   t.ParticleCadence,
			ParticleBatchMin:  t.ParticleBatchMin,
			ParticleBatchMax:  t.ParticleBatchMax,
			ParticleLifespan:  t.ParticleLifespan,
			ParticleMaxJitter: t.ParticleMaxJitter,
			RingBurstSize:     t.RingBurstSize,
			RingStagger:       t.RingStagger,
			RingDuration:      t.RingDuration,
			AmbientAlpha:      t.AmbientAlpha,
		},
	}
}

// Path returns the config file location, MOODBOARD_CONFIG or DefaultPath.
func Path() string {
	return getEnv("MOODBOARD_CONFIG", DefaultPath)
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Ollama.Host = getEnv("OLLAMA_HOST", c.Ollama.Host)
	c.Ollama.Model = getEnv("OLLAMA_MODEL", c.Ollama.Model)
	c.Spotify.ClientID = getEnv("SPOTIFY_CLIENT_ID", c.Spotify.ClientID)
	c.Spotify.ClientSecret = getEnv("SPOTIFY_CLIENT_SECRET", c.Spotify.ClientSecret)
	c.Spotify.MaxRetries = getEnvInt("SPOTIFY_MAX_RETRIES", c.Spotify.MaxRetries)
	c.Spotify.RetryBackoffMs = getEnvInt("SPOTIFY_RETRY_BACKOFF_MS", c.Spotify.RetryBackoffMs)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt ignores values that are not positive integers.
func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
