package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/goliatone/go-lawnquote/internal/logging"
	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
	"github.com/goliatone/go-lawnquote/pkg/renderers/tui"
)

func newPromptCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the quote form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := quote.New(
				quote.WithSubmitDelay(state.cfg.Quote.SubmitDelay),
				quote.OnSubmitted(func(req quote.Request) {
					state.logger.Debug("quote request submitted",
						logging.SessionField(req.SessionID),
						zap.String("area", string(req.Area)),
						zap.Strings("photos", req.PhotoNames))
				}),
			)
			defer session.Close()

			styles := text.DefaultStyles()
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				styles = text.PlainStyles()
			}
			runner := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithRenderer(text.New(text.WithStyles(styles))),
				tui.WithTheme(promptTheme(styles)),
			)

			err := runner.Run(cmd.Context(), session)
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			return err
		},
	}
}

func promptTheme(styles text.Styles) tui.Theme {
	return tui.Theme{ErrorPrefix: styles.Error.Render("!") + " "}
}
