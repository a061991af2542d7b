package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daviddao/voiceagent_viewer/internal/config"
	"github.com/daviddao/voiceagent_viewer/internal/fixture"
)

func newFixtureCmd() *cobra.Command {
	var (
		file     string
		addr     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve conversations from a JSON file over the backend API",
		Long: `Serve a local stand-in for the voice-agent backend.

The file holds a JSON array of full conversation records. It is reloaded
whenever it changes, so edits show up after pressing r in the viewer.

Examples:
  vav fixture --file conversations.json
  vav fixture --file conversations.json --addr 127.0.0.1:5001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if logLevel != "" {
				cfg.LogLevel = config.ParseLogLevel(logLevel)
			}
			logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel, cmd.ErrOrStderr())
			defer closeLog()

			s, err := fixture.Open(file)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return fixture.Serve(ctx, addr, s, logger)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture JSON file")
	cmd.Flags().StringVar(&addr, "addr", ":5001", "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default: $VAV_LOG_LEVEL)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
