package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/config"
	"github.com/goliatone/go-lawnquote/pkg/render"
)

// ResolveTheme builds the theme selector (the built-in theme plus any YAML
// manifests under cfg.Dir) and resolves cfg.Name and cfg.Variant.
func ResolveTheme(cfg config.ThemeConfig) (*render.ThemeConfig, error) {
	selector, err := render.NewManifestSelector(render.DefaultManifest())
	if err != nil {
		return nil, err
	}
	if cfg.Dir != "" {
		manifests, err := render.LoadThemesFS(os.DirFS(cfg.Dir))
		if err != nil {
			return nil, fmt.Errorf("app: load themes: %w", err)
		}
		for _, manifest := range manifests {
			if err := selector.Register(manifest); err != nil {
				return nil, fmt.Errorf("app: register theme: %w", err)
			}
		}
	}
	theme, err := render.ResolveTheme(selector, cfg.Name, cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("app: resolve theme: %w", err)
	}
	return theme, nil
}

// ThemeWatcher holds the resolved theme and re-resolves it when a manifest
// under the theme directory changes. A failed reload keeps the previous
// theme.
type ThemeWatcher struct {
	cfg     config.ThemeConfig
	logger  *zap.Logger
	current atomic.Pointer[render.ThemeConfig]
}

// NewThemeWatcher resolves the initial theme. It fails when that does.
func NewThemeWatcher(cfg config.ThemeConfig, logger *zap.Logger) (*ThemeWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &ThemeWatcher{cfg: cfg, logger: logger}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Current returns the latest resolved theme.
func (w *ThemeWatcher) Current() *render.ThemeConfig {
	return w.current.Load()
}

// Reload re-reads the theme directory.
func (w *ThemeWatcher) Reload() error {
	theme, err := ResolveTheme(w.cfg)
	if err != nil {
		return err
	}
	w.current.Store(theme)
	return nil
}

// Watch blocks until ctx is done, reloading on manifest changes. Without a
// theme directory it only waits.
func (w *ThemeWatcher) Watch(ctx context.Context) error {
	if w.cfg.Dir == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("app: theme watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("app: watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Debug("watching themes", zap.String("dir", w.cfg.Dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("theme watcher error", zap.Error(err))
		}
	}
}

func (w *ThemeWatcher) handleEvent(event fsnotify.Event) {
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
	default:
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	if err := w.Reload(); err != nil {
		w.logger.Warn("theme reload failed, keeping previous theme",
			zap.String("file", event.Name), zap.Error(err))
		return
	}
	w.logger.Info("theme reloaded", zap.String("file", event.Name))
}
