// Package text renders quote views as plain terminal text styled with
// lipgloss.
package text

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
)

// Name is the registry name of the text renderer.
const Name = "text"

// Styles groups the lipgloss styles used per section.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Success  lipgloss.Style
}

// DefaultStyles mirrors the HTML palette with ANSI colours.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Button:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	}
}

// PlainStyles applies no decoration. Used when colour output is disabled.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Label:    plain,
		Error:    plain,
		Muted:    plain,
		Button:   plain,
		Disabled: plain,
		Success:  plain,
	}
}

// Option configures the renderer.
type Option func(*Renderer)

// WithStyles replaces DefaultStyles.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// Renderer renders views for terminals.
type Renderer struct {
	styles Styles
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{styles: DefaultStyles()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render ignores theme, actions and notice; they only apply to HTML.
func (r *Renderer) Render(_ context.Context, view quote.View, _ render.RenderOptions) ([]byte, error) {
	var b strings.Builder

	if view.Submitted {
		b.WriteString(r.styles.Success.Render(view.ConfirmationTitle))
		b.WriteString("\n")
		b.WriteString(view.ConfirmationBody)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	b.WriteString(r.styles.Title.Render(view.Title))
	b.WriteString("\n\n")

	length := view.Length
	if length == "" {
		length = "-"
	}
	r.field(&b, "Length of lawn (meters)", length)
	r.field(&b, "Area to mow", view.Area.Label())

	if len(view.Previews) == 0 {
		r.field(&b, "Photos", "none")
	} else {
		r.field(&b, "Photos", "")
		for _, src := range view.Previews {
			b.WriteString("  - ")
			b.WriteString(src)
			b.WriteString("\n")
		}
	}

	if len(view.Errors) > 0 {
		b.WriteString("\n")
		for _, message := range view.Errors {
			b.WriteString(r.styles.Error.Render("! " + message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	button := "[ " + view.SubmitLabel + " ]"
	if view.SubmitDisabled {
		b.WriteString(r.styles.Disabled.Render(button))
	} else {
		b.WriteString(r.styles.Button.Render(button))
	}
	b.WriteString("\n")
	if view.PhotoHint != "" {
		b.WriteString(r.styles.Muted.Render(view.PhotoHint))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	b.WriteString(r.styles.Label.Render(label + ":"))
	if value != "" {
		b.WriteString(" ")
		b.WriteString(value)
	}
	b.WriteString("\n")
}
