package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-lawnquote/internal/app"
)

func newServeCommand(state *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := state.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			service, err := app.New(cfg, state.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return service.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
