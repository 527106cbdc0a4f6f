package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/config"
	"github.com/goliatone/go-lawnquote/internal/logging"
)

var (
	// Set through -ldflags at release time.
	version = "dev"
	commit  = "none"
)

type cliState struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "lawnquote",
		Short:         "Lawn mowing quote request form",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(state.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&state.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCommand(state),
		newPromptCommand(state),
		newRenderCommand(state),
		newVersionCommand(),
	)
	return root
}
