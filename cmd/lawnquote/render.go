package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-lawnquote/internal/app"
	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/html"
	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
)

// newRenderCommand writes the empty form, e.g. to preview a theme.
func newRenderCommand(state *cliState) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the blank quote form to stdout or a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := html.New()
			if err != nil {
				return err
			}
			registry, err := render.NewRegistry(page, text.New(text.WithStyles(text.PlainStyles())))
			if err != nil {
				return err
			}
			renderer, err := registry.Get(format)
			if err != nil {
				return err
			}

			theme, err := app.ResolveTheme(state.cfg.Theme)
			if err != nil {
				return err
			}

			session := quote.New()
			defer session.Close()

			out, err := renderer.Render(cmd.Context(), session.View(), render.RenderOptions{
				Theme:  theme,
				Notice: render.SanitizeNotice(state.cfg.Form.NoticeHTML),
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", html.Name, "renderer to use (html or text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
