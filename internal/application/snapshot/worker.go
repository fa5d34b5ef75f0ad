package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
)

// Defaults applied by New.
const (
	DefaultInterval         = time.Minute
	DefaultOperationTimeout = 30 * time.Second
	DefaultPageSize         = 25
	DefaultConcurrency      = 4
)

// Worker refreshes the snapshot of every kind on a fixed interval.
type Worker struct {
	lister           Lister
	store            Store
	clock            clock.Clock
	kinds            []domain.Kind
	interval         time.Duration
	operationTimeout time.Duration
	pageSize         int
	concurrency      int
	running          atomic.Bool
	wg               sync.WaitGroup
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithInterval sets how often snapshots are regenerated.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) { w.interval = d }
}

// WithOperationTimeout bounds one full regeneration cycle.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) { w.operationTimeout = d }
}

// WithPageSize sets the page size of the rendered page.
func WithPageSize(n int) Option {
	return func(w *Worker) { w.pageSize = n }
}

// WithKinds restricts the kinds that are rendered.
func WithKinds(kinds ...domain.Kind) Option {
	return func(w *Worker) { w.kinds = kinds }
}

// WithConcurrency limits how many kinds render at once.
func WithConcurrency(n int) Option {
	return func(w *Worker) { w.concurrency = n }
}

// WithClock sets the clock driving the interval and the GeneratedAt stamp.
func WithClock(c clock.Clock) Option {
	return func(w *Worker) { w.clock = c }
}

// New creates a Worker. Non-positive option values fall back to defaults.
func New(lister Lister, store Store, opts ...Option) *Worker {
	w := &Worker{
		lister: lister,
		store:  store,
		clock:  clock.Real(),
		kinds:  domain.Kinds,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.operationTimeout <= 0 {
		w.operationTimeout = DefaultOperationTimeout
	}
	if w.pageSize <= 0 {
		w.pageSize = DefaultPageSize
	}
	if w.concurrency <= 0 {
		w.concurrency = DefaultConcurrency
	}
	return w
}

// Start renders once immediately, then on every tick until ctx is cancelled.
// A tick that arrives while a cycle is still running is skipped.
// On shutdown it waits for the in-flight cycle and returns nil.
func (w *Worker) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "snapshot worker started",
		slog.Duration("interval", w.interval),
		slog.Int("kinds", len(w.kinds)),
		slog.Int("page_size", w.pageSize))

	w.runCycle(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.wg.Go(func() { w.runCycle(ctx) })
		case <-ctx.Done():
			slog.InfoContext(ctx, "shutdown requested, waiting for in-flight snapshot cycle")
			w.wg.Wait()
			slog.InfoContext(ctx, "snapshot worker stopped")
			return nil
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "previous snapshot cycle still running, skipping tick")
		return
	}
	defer w.running.Store(false)

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.operationTimeout)
	defer cancel()
	if err := w.RunOnce(opCtx); err != nil {
		slog.ErrorContext(opCtx, "snapshot cycle failed", slog.Any("error", err))
	}
}

// RunOnce renders and stores the snapshot of every kind.
// A failing kind does not stop the others; the first error is returned.
func (w *Worker) RunOnce(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for _, kind := range w.kinds {
		g.Go(func() error {
			if err := w.render(ctx, kind); err != nil {
				slog.ErrorContext(ctx, "failed to render snapshot",
					slog.String("kind", string(kind)),
					slog.Any("error", err))
				return fmt.Errorf("snapshot %s: %w", kind, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) render(ctx context.Context, kind domain.Kind) error {
	res, err := w.lister.ListItems(ctx, kind, domain.NoSelection(), 1, w.pageSize)
	if err != nil {
		return err
	}

	snap := &domain.Snapshot{
		Kind:        kind,
		Items:       res.Items,
		Total:       res.Total,
		TotalPages:  res.TotalPages,
		PageSize:    w.pageSize,
		GeneratedAt: w.clock.Now().UTC(),
	}
	if err := w.store.Put(ctx, snap); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	slog.DebugContext(ctx, "snapshot stored",
		slog.String("kind", string(kind)),
		slog.Int("items", len(res.Items)),
		slog.Int("total", res.Total))
	return nil
}
