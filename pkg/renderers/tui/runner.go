// Package tui drives a quote session from the terminal. Prompts go through a
// PromptDriver (survey by default) and the form is printed between rounds by
// a render.Renderer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
)

const defaultPollInterval = 50 * time.Millisecond

// Runner prompts for the quote fields until the session is submitted.
type Runner struct {
	driver       PromptDriver
	renderer     render.Renderer
	readFile     FileReader
	pollInterval time.Duration
	theme        Theme
}

// New constructs a Runner with the survey driver and the text renderer.
func New(options ...Option) *Runner {
	r := &Runner{
		driver:       NewSurveyDriver(nil),
		renderer:     text.New(),
		readFile:     defaultFileReader,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Run loops over the form until session reaches the submitted state, then
// prints the confirmation. A blank photo answer leaves the current
// selection untouched.
func (r *Runner) Run(ctx context.Context, session *quote.Session) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if session == nil {
		return errors.New("tui: session is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if session.State() == quote.StateSubmitted {
			return r.show(ctx, session)
		}
		if err := r.show(ctx, session); err != nil {
			return err
		}
		if err := r.promptLength(ctx, session); err != nil {
			return err
		}
		if err := r.promptArea(ctx, session); err != nil {
			return err
		}
		if err := r.promptPhotos(ctx, session); err != nil {
			return err
		}

		if errs := session.Errors(); len(errs) > 0 {
			if err := r.show(ctx, session); err != nil {
				return err
			}
		}

		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: quote.SubmitLabel + "?", Default: true})
		if err != nil {
			return fmt.Errorf("tui: confirm submit: %w", err)
		}
		if !ok {
			continue
		}

		state, err := session.Submit(ctx)
		if err != nil {
			return fmt.Errorf("tui: submit: %w", err)
		}
		if state != quote.StateSubmitting {
			continue
		}
		if err := r.show(ctx, session); err != nil {
			return err
		}
		if err := r.awaitSubmitted(ctx, session); err != nil {
			return err
		}
	}
}

func (r *Runner) promptLength(ctx context.Context, session *quote.Session) error {
	value, err := r.driver.Input(ctx, InputConfig{
		Message: "Length of lawn (meters):",
		Default: session.Length(),
	})
	if err != nil {
		return fmt.Errorf("tui: prompt length: %w", err)
	}
	return session.SetLength(strings.TrimSpace(value))
}

func (r *Runner) promptArea(ctx context.Context, session *quote.Session) error {
	options := quote.AreaOptions()
	labels := make([]string, 0, len(options))
	current := 0
	for i, opt := range options {
		labels = append(labels, opt.Label)
		if opt.Value == session.Area() {
			current = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Area to mow:",
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return fmt.Errorf("tui: prompt area: %w", err)
	}
	area := quote.AreaUnset
	if idx >= 0 && idx < len(options) {
		area = options[idx].Value
	}
	return session.SetArea(area)
}

func (r *Runner) promptPhotos(ctx context.Context, session *quote.Session) error {
	raw, err := r.driver.Input(ctx, InputConfig{
		Message: "Photo paths (comma separated):",
		Help:    quote.PhotoHint,
	})
	if err != nil {
		return fmt.Errorf("tui: prompt photos: %w", err)
	}

	paths := splitPaths(raw)
	if len(paths) == 0 {
		return nil
	}

	photos := make([]quote.Photo, 0, len(paths))
	for _, path := range paths {
		data, err := r.readFile(path)
		if err != nil {
			if infoErr := r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("cannot read %s: %v", path, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		name := filepath.Base(path)
		photos = append(photos, quote.Photo{
			Name:        name,
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(name))),
			Data:        data,
		})
	}
	if len(photos) == 0 {
		return r.driver.Info(ctx, r.theme.ErrorPrefix+"no readable photos, selection unchanged")
	}

	if _, err := session.SelectPhotos(ctx, photos); err != nil {
		return fmt.Errorf("tui: select photos: %w", err)
	}
	return nil
}

func (r *Runner) awaitSubmitted(ctx context.Context, session *quote.Session) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		switch session.State() {
		case quote.StateSubmitted:
			return nil
		case quote.StateIdle:
			return ErrSubmissionStalled
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) show(ctx context.Context, session *quote.Session) error {
	out, err := r.renderer.Render(ctx, session.View(), render.RenderOptions{})
	if err != nil {
		return fmt.Errorf("tui: render view: %w", err)
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+strings.TrimRight(string(out), "\n"))
}

func splitPaths(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
