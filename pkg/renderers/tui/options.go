package tui

import (
	"os"
	"time"

	"github.com/goliatone/go-lawnquote/pkg/render"
)

// Theme captures optional prefixes the runner applies when printing
// messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileReader loads a photo from disk.
type FileReader func(path string) ([]byte, error)

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithRenderer sets the renderer used to print the form between prompts.
func WithRenderer(renderer render.Renderer) Option {
	return func(r *Runner) {
		if renderer != nil {
			r.renderer = renderer
		}
	}
}

// WithFileReader replaces os.ReadFile.
func WithFileReader(read FileReader) Option {
	return func(r *Runner) {
		if read != nil {
			r.readFile = read
		}
	}
}

// WithPollInterval sets how often the runner checks a pending submission.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

func defaultFileReader(path string) ([]byte, error) {
	return os.ReadFile(path)
}
