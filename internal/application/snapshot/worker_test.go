package snapshot_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
)

// fakeLister returns total items per kind and fails for kinds in failing.
type fakeLister struct {
	mu      sync.Mutex
	calls   int
	failing map[domain.Kind]bool
}

func (l *fakeLister) ListItems(_ context.Context, kind domain.Kind, sel domain.Selection, page, pageSize int) (domain.ListingResult[domain.Item], error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	if l.failing[kind] {
		return domain.ListingResult[domain.Item]{}, errors.New("database unavailable")
	}
	if sel.ActiveFacet() != domain.FacetNone || page != 1 {
		return domain.ListingResult[domain.Item]{}, fmt.Errorf("unexpected query %s page %d", sel, page)
	}
	const total = 42
	items := make([]domain.Item, min(pageSize, total))
	for i := range items {
		items[i] = domain.Item{ID: fmt.Sprintf("%s-%d", kind, i), Kind: kind, Title: "item"}
	}
	return domain.NewListingResult(items, total, pageSize), nil
}

func (l *fakeLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type memoryStore struct {
	mu    sync.Mutex
	snaps map[domain.Kind]domain.Snapshot
	puts  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: map[domain.Kind]domain.Snapshot{}}
}

func (s *memoryStore) Put(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.Kind] = *snap
	s.puts++
	return nil
}

func (s *memoryStore) Get(_ context.Context, kind domain.Kind) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[kind]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return &snap, nil
}

func (s *memoryStore) List(context.Context) ([]*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Snapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, &snap)
	}
	return out, nil
}

func (s *memoryStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func TestWorker_RunOnce(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lister := &fakeLister{}
	store := newMemoryStore()
	w := snapshot.New(lister, store, snapshot.WithPageSize(10), snapshot.WithClock(clock.NewFake(start)))

	require.NoError(t, w.RunOnce(context.Background()))

	snaps, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, len(domain.Kinds))

	got, err := store.Get(context.Background(), domain.KindArticle)
	require.NoError(t, err)
	assert.Len(t, got.Items, 10)
	assert.Equal(t, 42, got.Total)
	assert.Equal(t, 5, got.TotalPages)
	assert.Equal(t, 10, got.PageSize)
	assert.Equal(t, start, got.GeneratedAt)
}

func TestWorker_RunOnce_FailingKindDoesNotStopOthers(t *testing.T) {
	lister := &fakeLister{failing: map[domain.Kind]bool{domain.KindGraphic: true}}
	store := newMemoryStore()
	w := snapshot.New(lister, store, snapshot.WithConcurrency(1))

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphics")

	_, err = store.Get(context.Background(), domain.KindGraphic)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.Equal(t, len(domain.Kinds)-1, store.putCount())
}

func TestWorker_Start_RendersOnEveryTick(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	lister := &fakeLister{}
	store := newMemoryStore()
	w := snapshot.New(lister, store,
		snapshot.WithClock(fake),
		snapshot.WithInterval(time.Minute),
		snapshot.WithKinds(domain.KindArticle))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// The startup cycle runs before the ticker is registered.
	require.Eventually(t, func() bool { return fake.PendingCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, store.putCount())

	fake.Advance(time.Minute)
	require.Eventually(t, func() bool { return store.putCount() == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 2, lister.callCount())
}

func TestSeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMemoryStore()
	ctx := context.Background()

	_, ok, err := snapshot.Seed(ctx, store, domain.KindArticle, 10, time.Hour, now)
	require.NoError(t, err)
	assert.False(t, ok, "nothing stored")

	require.NoError(t, store.Put(ctx, &domain.Snapshot{
		Kind: domain.KindArticle, Items: make([]domain.Item, 10), Total: 42, TotalPages: 5,
		PageSize: 10, GeneratedAt: now.Add(-10 * time.Minute),
	}))

	res, ok, err := snapshot.Seed(ctx, store, domain.KindArticle, 10, time.Hour, now)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 42, res.Total)
	assert.Equal(t, 5, res.TotalPages)

	_, ok, _ = snapshot.Seed(ctx, store, domain.KindArticle, 25, time.Hour, now)
	assert.False(t, ok, "page size mismatch")

	_, ok, _ = snapshot.Seed(ctx, store, domain.KindArticle, 10, 5*time.Minute, now)
	assert.False(t, ok, "stale")

	_, ok, _ = snapshot.Seed(ctx, store, domain.KindArticle, 10, 0, now)
	assert.True(t, ok, "zero max age accepts any age")
}
