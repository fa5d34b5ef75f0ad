// Command console is the terminal listing screen of the newsdesk content console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezkam/newsdesk/internal/config"
	"github.com/rezkam/newsdesk/internal/console"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(console.Run).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

type runFunc func(context.Context, *config.ConsoleConfig) error

// newRootCmd builds the command. Flags override environment values.
func newRootCmd(run runFunc) *cobra.Command {
	var (
		apiURL   string
		apiKey   string
		pageSize int
		logFile  string
		natsURL  string
		backend  string
	)

	cmd := &cobra.Command{
		Use:          "console [kind]",
		Short:        "Browse, filter and delete newsdesk content",
		Long:         "Lists one content kind (articles, features, graphics, opinions or sections) with search, category and status filters.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConsoleConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if len(args) == 1 {
				cfg.Kind = args[0]
			}
			if flags.Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if flags.Changed("api-key") {
				cfg.APIKey = apiKey
			}
			if flags.Changed("page-size") {
				cfg.PageSize = pageSize
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}
			if flags.Changed("nats-url") {
				cfg.NATS.URL = natsURL
			}
			if flags.Changed("snapshot-backend") {
				cfg.Snapshot.Backend = backend
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&apiURL, "api-url", "", "newsdesk API base URL (NEWSDESK_API_URL)")
	flags.StringVar(&apiKey, "api-key", "", "API key (NEWSDESK_API_KEY)")
	flags.IntVar(&pageSize, "page-size", 0, "items per page (NEWSDESK_CONSOLE_PAGE_SIZE)")
	flags.StringVar(&logFile, "log-file", "", "write JSON logs to this file (NEWSDESK_CONSOLE_LOG_FILE)")
	flags.StringVar(&natsURL, "nats-url", "", "NATS URL for live refresh (NEWSDESK_NATS_URL)")
	flags.StringVar(&backend, "snapshot-backend", "", "snapshot store: none, fs, gcs or redis (NEWSDESK_SNAPSHOT_BACKEND)")
	return cmd
}
