package render

import (
	"context"

	"github.com/goliatone/go-lawnquote/pkg/quote"
)

// Renderer turns a quote view into bytes (HTML page, terminal text, ...).
// Implementations must be deterministic: the same view and options always
// produce the same output.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view quote.View, options RenderOptions) ([]byte, error)
}
