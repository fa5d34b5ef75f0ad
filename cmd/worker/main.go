package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/newsdesk/internal/application/content"
	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/config"
	"github.com/rezkam/newsdesk/internal/infrastructure/observability"
	"github.com/rezkam/newsdesk/internal/infrastructure/persistence/sqlstore"
	"github.com/rezkam/newsdesk/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		return err
	}
	kinds, err := cfg.ContentKinds()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serviceName := cfg.Observability.ServiceName
	if serviceName == "" {
		serviceName = "newsdesk-worker"
	}
	telemetry, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down telemetry: %v\n", err)
		}
	}()

	db, err := sqlstore.NewStoreWithConfig(ctx, sqlstore.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close store", slog.Any("error", err))
		}
	}()

	snapshots, closer, err := storage.Open(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			slog.Error("failed to close snapshot store", slog.Any("error", err))
		}
	}()

	service := content.NewService(db, nil, content.Config{MaxPageSize: max(cfg.PageSize, content.MaxPageSize)})
	worker := snapshot.New(service, snapshots,
		snapshot.WithInterval(cfg.Interval),
		snapshot.WithOperationTimeout(cfg.OperationTimeout),
		snapshot.WithPageSize(cfg.PageSize),
		snapshot.WithConcurrency(cfg.Concurrency),
		snapshot.WithKinds(kinds...),
	)

	slog.InfoContext(ctx, "snapshot worker configured",
		slog.String("backend", cfg.Snapshot.Backend),
		slog.String("dsn", sqlstore.MaskDSN(cfg.Database.DSN)),
		slog.Duration("interval", cfg.Interval),
		slog.Int("kinds", len(kinds)))

	if err := worker.Start(ctx); err != nil {
		return err
	}
	slog.Info("snapshot worker stopped")
	return nil
}
