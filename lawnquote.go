// Package lawnquote is the top-level entry point for the lawn mowing quote
// form. It re-exports the session types and offers one-call rendering for
// callers that embed the form in their own server.
package lawnquote

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/html"
)

// Session is the per-visitor quote form controller.
type Session = quote.Session

// View is the render model snapshotted from a Session.
type View = quote.View

// Photo is one selected file.
type Photo = quote.Photo

// Area is the yard selection.
type Area = quote.Area

// State is the submission state.
type State = quote.State

// Request is the snapshot passed to quote.OnSubmitted hooks.
type Request = quote.Request

// RenderOptions carries per-request rendering inputs (theme, notice,
// actions).
type RenderOptions = render.RenderOptions

// NewSession exposes the session constructor from the top-level module.
func NewSession(options ...quote.Option) *Session {
	return quote.New(options...)
}

// RenderHTML renders the session as a full HTML page with the embedded
// templates.
func RenderHTML(ctx context.Context, session *Session, options RenderOptions) ([]byte, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, session.View(), options)
}

// ResolveTheme resolves name and variant through selector into the theme
// configuration accepted by RenderOptions.Theme.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*render.ThemeConfig, error) {
	return render.ResolveTheme(selector, name, variant)
}

// DefaultThemeSelector returns a selector holding only the built-in theme.
func DefaultThemeSelector() theme.ThemeSelector {
	selector, err := render.NewManifestSelector(render.DefaultManifest())
	if err != nil {
		panic(err)
	}
	return selector
}
