// vav is a terminal dashboard for recorded voice-agent conversations.
//
// It lists the call-center sessions stored by the voice-agent backend and
// drills into one session's transcript and the backend actions the agent
// executed during the call.
//
// Usage:
//
//	vav                          # Connect to VAV_API_URL or http://localhost:5001
//	vav --api <url>              # Use a specific backend address
//	vav --conversation <id>      # Open a conversation once the list has loaded
//	vav --json                   # Dump the conversation list as JSON and exit
//	vav --json --conversation ID # Dump one conversation as JSON and exit
//	vav fixture --file f.json    # Serve a local fixture backend
//	vav --version                # Print version and exit
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/daviddao/voiceagent_viewer/internal/client"
	"github.com/daviddao/voiceagent_viewer/internal/config"
	"github.com/daviddao/voiceagent_viewer/internal/conversation"
	"github.com/daviddao/voiceagent_viewer/internal/datasource"
	"github.com/daviddao/voiceagent_viewer/internal/format"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// rootFlags are the flags of the TUI command.
type rootFlags struct {
	api          string
	conversation string
	jsonMode     bool
	logFile      string
	logLevel     string
	timezone     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vav: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "vav",
		Short: "Browse recorded voice-agent conversations",
		Long: `vav is an operator dashboard for the voice-agent call center.

It lists recorded conversation sessions and shows the full transcript and
executed backend actions (order lookups, cancellations, ...) of one session.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.api, "api", "", "backend base address (default: $VAV_API_URL or http://localhost:5001)")
	cmd.Flags().StringVar(&f.conversation, "conversation", "", "open this conversation id on startup")
	cmd.Flags().BoolVar(&f.jsonMode, "json", false, "print the list (or --conversation) as JSON and exit (no TUI)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file (default: $VAV_LOG_FILE)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug|info|warn|error (default: $VAV_LOG_LEVEL)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "IANA zone for timestamps (default: $VAV_TIMEZONE or local)")

	cmd.AddCommand(newFixtureCmd())
	return cmd
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig(f rootFlags) config.Config {
	cfg := config.Load()
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	if f.logLevel != "" {
		cfg.LogLevel = config.ParseLogLevel(f.logLevel)
	}
	if f.timezone != "" {
		cfg.Timezone = f.timezone
	}
	return cfg
}

func runRoot(cmd *cobra.Command, f rootFlags) error {
	cfg := loadConfig(f)

	// The TUI owns the terminal, so it logs to the file only.
	var console io.Writer
	if f.jsonMode {
		console = cmd.ErrOrStderr()
	}
	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel, console)
	defer closeLog()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Discover reads VAV_API_URL itself, so only the flag is passed.
	c, base, err := datasource.Open(f.api, logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "version", Version, "api", base, "env_file", cfg.EnvFile)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.jsonMode {
		return writeJSON(ctx, cmd.OutOrStdout(), c, f.conversation)
	}

	m := newModel(ctx, c, format.New(loc), logger)
	m.baseURL = base
	m.startID = f.conversation

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// jsonOutput is the structure for --json mode.
type jsonOutput struct {
	BaseURL       string                 `json:"base_url"`
	FetchedAt     string                 `json:"fetched_at"`
	Conversations []conversation.Summary `json:"conversations,omitempty"`
	Conversation  *conversation.Detail   `json:"conversation,omitempty"`
}

// writeJSON fetches the list, or one conversation when id is set, and
// prints it to w.
func writeJSON(ctx context.Context, w io.Writer, c *client.Client, id string) error {
	out := jsonOutput{BaseURL: c.BaseURL()}
	if id != "" {
		d, err := c.GetConversation(ctx, id)
		if err != nil {
			return err
		}
		out.Conversation = d
	} else {
		list, err := c.ListConversations(ctx)
		if err != nil {
			return err
		}
		out.Conversations = list
	}
	out.FetchedAt = time.Now().Format(time.RFC3339)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// logWarnings records values the renderer could not format.
func logWarnings(logger *slog.Logger, warnings []error) {
	for _, w := range warnings {
		logger.Warn("render", "error", w)
	}
}
