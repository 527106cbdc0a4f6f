package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	rendertemplate "github.com/goliatone/go-lawnquote/pkg/render/template"
	"github.com/goliatone/go-lawnquote/pkg/render/template/gotemplate"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk instead of the
// embedded bundle. The directory must contain templates/page.tpl.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer renders quote views as full HTML pages.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer over the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		source := gotemplate.WithFS(cfg.templateFS)
		if cfg.templateDir != "" {
			if _, err := os.Stat(filepath.Join(cfg.templateDir, PageTemplate)); err != nil {
				return nil, fmt.Errorf("html renderer: templates dir: %w", err)
			}
			source = gotemplate.WithBaseDir(cfg.templateDir)
		}
		built, err := gotemplate.New(source)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		engine = built
	}
	return &Renderer{templates: engine}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view quote.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	refresh := 0
	if view.Pending && options.RefreshSeconds > 0 {
		refresh = options.RefreshSeconds
	}
	themeName := ""
	if options.Theme != nil {
		themeName = options.Theme.Theme
	}

	result, err := r.templates.RenderTemplate(PageTemplate, map[string]any{
		"view":        view,
		"actions":     options.ResolvedActions(),
		"theme_style": options.Theme.CSSVarsStyle(),
		"theme_name":  themeName,
		"notice":      options.Notice,
		"refresh":     refresh,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
