package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ewilliams-labs/moodboard/internal/adapters/analysis"
	"github.com/ewilliams-labs/moodboard/internal/adapters/clock"
	"github.com/ewilliams-labs/moodboard/internal/adapters/itunes"
	"github.com/ewilliams-labs/moodboard/internal/adapters/ollama"
	"github.com/ewilliams-labs/moodboard/internal/adapters/playback"
	"github.com/ewilliams-labs/moodboard/internal/adapters/rest"
	"github.com/ewilliams-labs/moodboard/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodboard/internal/adapters/sqlite"
	"github.com/ewilliams-labs/moodboard/internal/adapters/sse"
	"github.com/ewilliams-labs/moodboard/internal/adapters/surface"
	"github.com/ewilliams-labs/moodboard/internal/adapters/tempo"
	"github.com/ewilliams-labs/moodboard/internal/config"
	"github.com/ewilliams-labs/moodboard/internal/core/ports"
	"github.com/ewilliams-labs/moodboard/internal/core/services"
	"github.com/ewilliams-labs/moodboard/internal/worker"
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History store and the pool that writes to it off the request path.
	db, err := sqlite.NewAdapter(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	pool := worker.NewPool(db, cfg.Worker.QueueSize)
	pool.Start(cfg.Worker.Workers)
	defer pool.Stop()

	// Collaborators. Spotify is optional; without credentials the catalog
	// search is skipped and tempo comes from preview analysis only.
	var catalog ports.CatalogSearcher
	tempoSources := []tempo.Source{}
	if cfg.Spotify.Enabled() {
		sp := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			BaseURL:      cfg.Spotify.BaseURL,
			TokenURL:     cfg.Spotify.TokenURL,
			MaxRetries:   cfg.Spotify.MaxRetries,
			RetryBackoff: time.Duration(cfg.Spotify.RetryBackoffMs) * time.Millisecond,
		})
		catalog = sp
		tempoSources = append(tempoSources, tempo.Source{Name: "spotify", Provider: sp})
	} else {
		log.Warn().Msg("SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET not set, catalog search disabled")
	}
	tempoSources = append(tempoSources, tempo.Source{Name: "preview-analysis", Provider: analysis.NewAnalyzer()})

	collab := services.Collaborators{
		Palette:  ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model),
		Enricher: itunes.NewClient(cfg.ITunes.BaseURL, catalog),
		Catalog:  catalog,
		Tempo:    tempo.NewChain(tempoSources...),
	}

	// Render pipeline: scene mutations stream to browsers over SSE.
	scene := surface.NewScene(0)
	events := sse.NewBroadcaster(func() any { return scene.Snapshot() })
	go scene.Run(ctx, events)

	bus := playback.NewBus()
	orch := services.NewOrchestrator(collab, scene, bus, clock.Real{},
		services.WithRecorder(pool),
		services.WithTuning(cfg.Effects.Tuning()),
	)
	defer orch.Stop()

	if err := config.Watch(ctx, cfgPath, func(next config.Config) {
		orch.SetTuning(next.Effects.Tuning())
	}); err != nil {
		log.Warn().Err(err).Str("path", cfgPath).Msg("config hot reload disabled")
	}

	handler := rest.NewHandler(rest.Deps{
		Moodboards: orch,
		History:    db,
		DB:         db,
		Scene:      scene,
		Playback:   bus,
		Events:     events,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("moodboard API listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
