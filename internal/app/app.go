// Package app assembles the HTTP service from configuration: metrics
// registry, theme, session manager and router, plus the serve lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-lawnquote/internal/config"
	"github.com/goliatone/go-lawnquote/internal/metrics"
	"github.com/goliatone/go-lawnquote/internal/server"
	"github.com/goliatone/go-lawnquote/internal/sessions"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/html"
	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
)

const shutdownTimeout = 10 * time.Second

// App is a configured, not yet started, HTTP service.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	manager *sessions.Manager
	server  *server.Server
	themes  *ThemeWatcher
}

// New wires every component from cfg.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mt := metrics.MustNewMetrics(registry)

	if cfg.Server.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("server.session_secret is the development default; set LAWNQUOTE_SERVER_SESSION_SECRET")
	}

	themes, err := NewThemeWatcher(cfg.Theme, logger.Named("theme"))
	if err != nil {
		return nil, err
	}

	renderers, err := newRegistry(cfg.Form)
	if err != nil {
		return nil, err
	}

	manager := sessions.New(sessions.Config{
		Max:         cfg.Sessions.Max,
		TTL:         cfg.Sessions.TTL,
		SubmitDelay: cfg.Quote.SubmitDelay,
	},
		sessions.WithLogger(logger.Named("sessions")),
		sessions.WithMetrics(mt),
	)

	srv, err := server.New(server.Config{
		SessionSecret:  cfg.Server.SessionSecret,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Debug:          cfg.Log.Level == "debug",
	}, manager,
		server.WithLogger(logger.Named("http")),
		server.WithMetrics(mt, registry),
		server.WithRegistry(renderers),
		server.WithThemeSource(themes.Current),
		server.WithNotice(cfg.Form.NoticeHTML),
	)
	if err != nil {
		manager.CloseAll()
		return nil, err
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		server:  srv,
		themes:  themes,
	}, nil
}

func newRegistry(form config.FormConfig) (*render.Registry, error) {
	page, err := html.New(html.WithTemplatesDir(form.TemplatesDir))
	if err != nil {
		return nil, fmt.Errorf("app: html renderer: %w", err)
	}
	return render.NewRegistry(page, text.New(text.WithStyles(text.PlainStyles())))
}

// Handler exposes the router.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run listens on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully and closes every session. Theme files are watched meanwhile.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer a.manager.CloseAll()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.themes.Watch(groupCtx)
	})
	group.Go(func() error {
		a.logger.Info("listening", zap.String("addr", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	})
	return group.Wait()
}
