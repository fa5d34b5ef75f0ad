package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezkam/newsdesk/internal/application/auth"
	"github.com/rezkam/newsdesk/internal/application/content"
	"github.com/rezkam/newsdesk/internal/config"
	httpapi "github.com/rezkam/newsdesk/internal/infrastructure/http"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/handler"
	"github.com/rezkam/newsdesk/internal/infrastructure/messaging/natsbus"
	"github.com/rezkam/newsdesk/internal/infrastructure/observability"
	"github.com/rezkam/newsdesk/internal/infrastructure/persistence/sqlstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	telemetry, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
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

	store, err := sqlstore.NewStoreWithConfig(ctx, sqlstore.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	slog.InfoContext(ctx, "storage initialized", slog.String("dsn", sqlstore.MaskDSN(cfg.Database.DSN)))

	var publisher *natsbus.Publisher
	var eventPublisher content.EventPublisher
	if cfg.NATS.Enabled() {
		nc, err := natsbus.Connect(cfg.NATS.URL, "newsdesk-server")
		if err != nil {
			_ = store.Close()
			return err
		}
		publisher = natsbus.NewPublisher(nc)
		eventPublisher = publisher
	}

	service := content.NewService(store, eventPublisher, content.Config{
		DefaultPageSize: cfg.Content.DefaultPageSize,
		MaxPageSize:     cfg.Content.MaxPageSize,
	})

	authenticator := auth.NewAuthenticator(ctx, store, auth.Config{
		OperationTimeout: cfg.Auth.OperationTimeout,
		UpdateQueueSize:  cfg.Auth.UpdateQueueSize,
	})

	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	}
	cleanupCtx, cleanupCancel := shutdownCtx()
	defer cleanupCancel()
	cleanup := newCleanup(cleanupCtx, authenticator, closer{"event publisher", publisher}, closer{"store", store})
	defer cleanup()

	router, err := handler.NewOpenAPIRouter(service)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	apiServer := httpapi.NewAPIServer(router, authenticator, httpapi.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	health, err := newHealthServer(cfg.GRPC)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(apiServer.Start)
	if health != nil {
		g.Go(health.Serve)
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(ctx, "shutting down")

		stopCtx, cancel := shutdownCtx()
		defer cancel()

		if health != nil {
			health.Stop(stopCtx)
		}
		if err := apiServer.Shutdown(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	})

	slog.InfoContext(ctx, "newsdesk server started", slog.String("http_addr", apiServer.Addr()))
	return g.Wait()
}
