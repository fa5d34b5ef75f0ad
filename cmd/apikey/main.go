// Command apikey creates an API key for the newsdesk API.
// It is a development utility; the key is printed once and never stored in clear.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/newsdesk/internal/application/auth"
	"github.com/rezkam/newsdesk/internal/config"
	"github.com/rezkam/newsdesk/internal/infrastructure/persistence/sqlstore"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		name string
		days int
	)

	cmd := &cobra.Command{
		Use:          "apikey",
		Short:        "Create an API key for the newsdesk API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAPIKeyGenConfig(name, days)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name/description for the API key (required)")
	cmd.Flags().IntVar(&days, "days", 0, "number of days until expiration (0 = never expires)")
	return cmd
}

func run(ctx context.Context, out io.Writer, cfg *config.APIKeyGenConfig) error {
	store, err := sqlstore.NewStoreWithConfig(ctx, sqlstore.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close store: %v\n", err)
		}
	}()

	var expiresAt *time.Time
	if cfg.DaysValid > 0 {
		expiry := time.Now().UTC().AddDate(0, 0, cfg.DaysValid)
		expiresAt = &expiry
	}

	apiKey, err := auth.CreateAPIKey(ctx, store, cfg.Name, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	fmt.Fprintln(out, "\nAPI key created")
	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "Name: %s\n", cfg.Name)
	if expiresAt != nil {
		fmt.Fprintf(out, "Expires: %s (%d days)\n", expiresAt.Format(time.RFC3339), cfg.DaysValid)
	} else {
		fmt.Fprintln(out, "Expires: never")
	}
	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "\nAPI key: %s\n\n", apiKey)
	fmt.Fprintln(out, "Save this key now. It will not be shown again.")
	fmt.Fprintln(out, "Usage example:")
	fmt.Fprintf(out, "  curl -H \"Authorization: Bearer %s\" http://localhost:8080/api/v1/articles\n", apiKey)
	return nil
}
