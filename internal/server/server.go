// Package server is the HTTP front-end of the quote form. It keeps one quote
// session per browser (keyed by a signed cookie) and renders it with the
// html renderer.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/metrics"
	lqsessions "github.com/goliatone/go-lawnquote/internal/sessions"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/html"
	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
)

const (
	// CookieName is the name of the signed session cookie.
	CookieName = "lawnquote"

	defaultMaxUploadBytes = 32 << 20
	defaultRefreshSeconds = 1
)

// Config holds the HTTP settings.
type Config struct {
	SessionSecret  string
	MaxUploadBytes int64
	// RefreshSeconds is the reload hint sent while a submission is pending.
	RefreshSeconds int
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string
	Debug       bool
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and handler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request metrics and exposes gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		if gatherer != nil {
			s.gatherer = gatherer
		}
	}
}

// WithRegistry replaces the default renderer registry (html and text).
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithTheme applies a resolved theme to every page.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(s *Server) {
		s.themeSource = func() *render.ThemeConfig { return theme }
	}
}

// WithThemeSource reads the theme per request, for themes that reload.
func WithThemeSource(source func() *render.ThemeConfig) Option {
	return func(s *Server) {
		s.themeSource = source
	}
}

// WithNotice shows operator HTML under the form. It is sanitized first.
func WithNotice(raw string) Option {
	return func(s *Server) {
		s.notice = render.SanitizeNotice(raw)
	}
}

// Server wires the gin engine to the session manager.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	manager  *lqsessions.Manager
	registry *render.Registry
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	notice   string

	themeSource func() *render.ThemeConfig
}

// New builds the router.
func New(cfg Config, manager *lqsessions.Manager, options ...Option) (*Server, error) {
	if manager == nil {
		return nil, errors.New("server: session manager is required")
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return nil, errors.New("server: session secret is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = defaultRefreshSeconds
	}

	s := &Server{
		cfg:      cfg,
		manager:  manager,
		logger:   zap.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.registry == nil {
		registry, err := defaultRegistry()
		if err != nil {
			return nil, err
		}
		s.registry = registry
	}
	if _, err := s.registry.Get(html.Name); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	if !cfg.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.logger, s.metrics))

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
		corsConfig.AllowCredentials = true
		if err := corsConfig.Validate(); err != nil {
			return nil, fmt.Errorf("server: cors: %w", err)
		}
		engine.Use(cors.New(corsConfig))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	engine.Use(sessions.Sessions(CookieName, store))

	s.engine = engine
	s.routes()
	return s, nil
}

func defaultRegistry() (*render.Registry, error) {
	page, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	return render.NewRegistry(page, text.New(text.WithStyles(text.PlainStyles())))
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	s.engine.GET("/previews/:id", s.servePreview)

	form := s.engine.Group("/")
	form.Use(quoteSession(s.manager, s.logger))
	{
		form.GET("/", s.index)
		form.POST("/photos", s.selectPhotos)
		form.POST("/submit", s.submit)
		form.POST("/session/close", s.closeSession)
	}
}

func (s *Server) theme() *render.ThemeConfig {
	if s.themeSource == nil {
		return nil
	}
	return s.themeSource()
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
