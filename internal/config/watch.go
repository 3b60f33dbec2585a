package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the file at path whenever it changes and hands the result to
// onChange. It watches the parent directory so editors that replace the file
// are seen too. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	target := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer fsw.Close()
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, func() { reload(ctx, target, onChange) })
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("config watcher error")
			}
		}
	}()
	return nil
}

func reload(ctx context.Context, path string, onChange func(Config)) {
	if ctx.Err() != nil {
		return
	}
	cfg, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping previous settings")
		return
	}
	log.Info().Str("path", path).Msg("config reloaded")
	onChange(cfg)
}
