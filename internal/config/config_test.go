package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
	for _, key := range []string{
		"PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "OLLAMA_HOST", "OLLAMA_MODEL",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_MAX_RETRIES", "SPOTIFY_RETRY_BACKOFF_MS",
	} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigSuite) write(name, body string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestMissingFileUsesDefaults() {
	cfg, err := Load(filepath.Join(s.dir, "absent.yaml"))
	s.Require().NoError(err)
	s.Equal(Default(), cfg)
	s.False(cfg.Spotify.Enabled())
}

func (s *ConfigSuite) TestFileOverridesDefaults() {
	path := s.write("moodboard.yaml", `
port: "9090"
ollama:
  model: mistral
effects:
  particle_cadence: 500ms
  ring_burst_size: 6
  ambient_alpha: 128
`)
	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("9090", cfg.Port)
	s.Equal("mistral", cfg.Ollama.Model)
	s.Equal("http://localhost:11434", cfg.Ollama.Host)
	s.Equal(500*time.Millisecond, cfg.Effects.ParticleCadence)

	tuning := cfg.Effects.Tuning()
	s.Equal(6, tuning.RingBurstSize)
	s.Equal(uint8(128), tuning.AmbientAlpha)
	s.Equal(Default().Effects.RingStagger, tuning.RingStagger)
}

func (s *ConfigSuite) TestEnvOverridesFile() {
	path := s.write("moodboard.yaml", "port: \"9090\"\nspotify:\n  max_retries: 5\n")
	s.T().Setenv("PORT", "7070")
	s.T().Setenv("SPOTIFY_CLIENT_ID", "id")
	s.T().Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	s.T().Setenv("SPOTIFY_RETRY_BACKOFF_MS", "not-a-number")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal("7070", cfg.Port)
	s.Equal(5, cfg.Spotify.MaxRetries)
	s.Equal(500, cfg.Spotify.RetryBackoffMs)
	s.True(cfg.Spotify.Enabled())
}

func (s *ConfigSuite) TestInvalidYAML() {
	path := s.write("moodboard.yaml", "port: [unterminated")
	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigSuite) TestZeroEffectsFallBackToDefaults() {
	s.Equal(Default().Effects.Tuning(), EffectsConfig{}.Tuning())
}

func (s *ConfigSuite) TestWatchReloadsOnWrite() {
	path := s.write("moodboard.yaml", "port: \"9090\"\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var port atomic.Value
	s.Require().NoError(Watch(ctx, path, func(cfg Config) { port.Store(cfg.Port) }))

	s.write("moodboard.yaml", "port: \"9191\"\n")
	s.Eventually(func() bool {
		v, _ := port.Load().(string)
		return v == "9191"
	}, 3*time.Second, 20*time.Millisecond)
}

func (s *ConfigSuite) TestWatchMissingDirectory() {
	err := Watch(context.Background(), filepath.Join(s.dir, "nope", "moodboard.yaml"), func(Config) {})
	s.Error(err)
}
