package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rezkam/newsdesk/internal/application/listing"
	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/config"
	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/client"
	"github.com/rezkam/newsdesk/internal/infrastructure/messaging/natsbus"
	"github.com/rezkam/newsdesk/internal/infrastructure/observability"
	"github.com/rezkam/newsdesk/internal/storage"
)

// Run opens the listing screen for cfg's kind and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, cfg *config.ConsoleConfig, opts ...tea.ProgramOption) error {
	kind, err := cfg.ContentKind()
	if err != nil {
		return err
	}

	logOutput, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	telemetry, err := observability.Setup(ctx, observability.Config{
		ServiceName: "newsdesk-console",
		LogOutput:   logOutput,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	api, err := client.New(client.Config{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}
	items := api.Kind(kind)

	notifier := NewNotifier()
	listingOpts := []listing.Option[domain.Item]{
		listing.WithDebounceWindow[domain.Item](cfg.DebounceWindow),
		listing.WithPageSize[domain.Item](cfg.PageSize),
		listing.WithOnChange(notifier.Notify),
		listing.WithLogger[domain.Item](telemetry.Logger),
	}
	if seed, ok := loadSnapshot(ctx, cfg, kind); ok {
		listingOpts = append(listingOpts, listing.WithSnapshot(seed))
	}

	ctrl, err := listing.New(ctx, listing.BindAll[domain.Item](items), listingOpts...)
	if err != nil {
		return fmt.Errorf("failed to create listing controller: %w", err)
	}
	defer ctrl.Close()

	if cfg.NATS.Enabled() {
		stop, err := subscribeChanges(cfg.NATS.URL, kind, ctrl.Refresh)
		if err != nil {
			// The screen still works without live refresh.
			slog.WarnContext(ctx, "live refresh disabled", slog.Any("error", err))
		} else {
			defer stop()
		}
	}

	ctrl.Start()

	model := NewModel(ctx, kind, ctrl, items, notifier)
	program := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}

// openLog returns the log destination. Without a file the logs are discarded,
// since stdout belongs to the screen.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// loadSnapshot reads the hydration snapshot for kind. Any failure only costs
// the first-paint shortcut.
func loadSnapshot(ctx context.Context, cfg *config.ConsoleConfig, kind domain.Kind) (domain.ListingResult[domain.Item], bool) {
	store, closer, err := storage.Open(ctx, cfg.Snapshot)
	if err != nil {
		slog.WarnContext(ctx, "snapshot store unavailable", slog.Any("error", err))
		return domain.ListingResult[domain.Item]{}, false
	}
	defer closer.Close()
	if store == nil {
		return domain.ListingResult[domain.Item]{}, false
	}

	readCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	res, ok, err := snapshot.Seed(readCtx, store, kind, snapshotPageSize(cfg.PageSize), cfg.SnapshotMaxAge, time.Now())
	if err != nil {
		slog.WarnContext(ctx, "failed to read snapshot", slog.String("kind", string(kind)), slog.Any("error", err))
		return domain.ListingResult[domain.Item]{}, false
	}
	if ok {
		slog.InfoContext(ctx, "seeded listing from snapshot",
			slog.String("kind", string(kind)),
			slog.Int("items", len(res.Items)),
			slog.Int("total", res.Total))
	}
	return res, ok
}

// snapshotPageSize is the page size the controller will actually request, so
// a snapshot is only accepted when it matches the first page shown.
func snapshotPageSize(configured int) int {
	return listing.NewPagination(configured).PageSize()
}

// subscribeChanges calls refresh whenever another editor changes kind.
func subscribeChanges(url string, kind domain.Kind, refresh func()) (func(), error) {
	nc, err := natsbus.Connect(url, "newsdesk-console")
	if err != nil {
		return nil, err
	}
	sub, err := natsbus.SubscribeKind(nc, kind, func(event domain.ContentEvent) {
		slog.Debug("remote change",
			slog.String("kind", string(event.Kind)),
			slog.String("mutation", string(event.Mutation)),
			slog.String("item_id", event.ItemID))
		refresh()
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	return func() {
		_ = sub.Unsubscribe()
		nc.Close()
	}, nil
}
