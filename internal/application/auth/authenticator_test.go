package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	operationTimeout = 500 * time.Millisecond
	shutdownTimeout  = 5 * time.Second
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

// mockRepository is a configurable in-memory Repository.
type mockRepository struct {
	mu   sync.Mutex
	keys map[string]*domain.APIKey

	updateLastUsedCalls []updateLastUsedCall
	updateLastUsedDelay time.Duration
	updateLastUsedErr   error
	createErr           error

	cancelledCount atomic.Int64
}

type updateLastUsedCall struct {
	KeyID     string
	Timestamp time.Time
}

func newMockRepository() *mockRepository {
	return &mockRepository{keys: make(map[string]*domain.APIKey)}
}

func (m *mockRepository) FindByShortToken(_ context.Context, shortToken string) (*domain.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[shortToken]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *key
	return &cp, nil
}

func (m *mockRepository) UpdateLastUsed(ctx context.Context, keyID string, timestamp time.Time) error {
	if m.updateLastUsedDelay > 0 {
		select {
		case <-time.After(m.updateLastUsedDelay):
		case <-ctx.Done():
			m.cancelledCount.Add(1)
			return ctx.Err()
		}
	}
	if ctx.Err() != nil {
		m.cancelledCount.Add(1)
		return ctx.Err()
	}

	m.mu.Lock()
	m.updateLastUsedCalls = append(m.updateLastUsedCalls, updateLastUsedCall{KeyID: keyID, Timestamp: timestamp})
	m.mu.Unlock()
	return m.updateLastUsedErr
}

func (m *mockRepository) Create(_ context.Context, key *domain.APIKey) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key.ShortToken] = key
	return nil
}

func (m *mockRepository) calls() []updateLastUsedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]updateLastUsedCall(nil), m.updateLastUsedCalls...)
}

func newAuthenticator(t *testing.T, repo Repository, cfg Config) *Authenticator {
	t.Helper()
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = operationTimeout
	}
	a := NewAuthenticator(context.Background(), repo, cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

func shutdown(t *testing.T, a *Authenticator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))
}

func TestAuthenticator_ValidateAPIKey(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	plain, err := CreateAPIKey(context.Background(), repo, "console", nil)
	require.NoError(t, err)

	a := newAuthenticator(t, repo, Config{Clock: clock.NewFake(now)})

	key, err := a.ValidateAPIKey(context.Background(), plain)
	require.NoError(t, err)
	assert.Equal(t, "console", key.Name)
	assert.Equal(t, keygen.Service, key.Service)

	shutdown(t, a)
	calls := repo.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, key.ID, calls[0].KeyID)
	assert.True(t, calls[0].Timestamp.Equal(now))
}

func TestAuthenticator_RejectsBadKeys(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	plain, err := CreateAPIKey(context.Background(), repo, "console", nil)
	require.NoError(t, err)
	parts, err := keygen.ParseAPIKey(plain)
	require.NoError(t, err)

	expired, err := CreateAPIKey(context.Background(), repo, "old", ptrTime(now.Add(-time.Minute)))
	require.NoError(t, err)

	inactive, err := CreateAPIKey(context.Background(), repo, "revoked", nil)
	require.NoError(t, err)
	inactiveParts, err := keygen.ParseAPIKey(inactive)
	require.NoError(t, err)
	repo.keys[inactiveParts.ShortToken].IsActive = false

	a := newAuthenticator(t, repo, Config{Clock: clock.NewFake(now)})

	tests := map[string]string{
		"malformed":     "not-a-key",
		"unknown token": "nd_000000000000_" + parts.LongSecret,
		"wrong secret":  "nd_" + parts.ShortToken + "_wrong",
		"expired":       expired,
		"inactive":      inactive,
	}
	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := a.ValidateAPIKey(context.Background(), key)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}

	shutdown(t, a)
	assert.Empty(t, repo.calls())
}

func TestAuthenticator_NotYetExpired(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	plain, err := CreateAPIKey(context.Background(), repo, "console", ptrTime(now.Add(time.Hour)))
	require.NoError(t, err)

	fake := clock.NewFake(now)
	a := newAuthenticator(t, repo, Config{Clock: fake})

	_, err = a.ValidateAPIKey(context.Background(), plain)
	require.NoError(t, err)

	fake.Advance(2 * time.Hour)
	_, err = a.ValidateAPIKey(context.Background(), plain)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateAPIKey_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	repo.createErr = domain.ErrConflict

	_, err := CreateAPIKey(context.Background(), repo, "console", nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthenticator_Shutdown_DrainsQueue(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	repo.updateLastUsedDelay = 10 * time.Millisecond
	a := newAuthenticator(t, repo, Config{UpdateQueueSize: 100})

	for i := range 10 {
		a.lastUsedUpdates <- lastUsedUpdate{keyID: string(rune('a' + i)), timestamp: now}
	}

	shutdown(t, a)
	assert.Len(t, repo.calls(), 10)
}

func TestAuthenticator_Shutdown_Timeout(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	repo.updateLastUsedDelay = 2 * time.Second
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	a := NewAuthenticator(appCtx, repo, Config{UpdateQueueSize: 100, OperationTimeout: 0})

	for range 5 {
		a.lastUsedUpdates <- lastUsedUpdate{keyID: "slow", timestamp: now}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := a.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	// Cancelling the application context releases the in-flight update.
	cancelApp()
}

func TestAuthenticator_Shutdown_Idempotent(t *testing.T) {
	t.Parallel()

	a := newAuthenticator(t, newMockRepository(), Config{})

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() { assert.NoError(t, a.Shutdown(context.Background())) })
	}
	wg.Wait()
	shutdown(t, a)
}

func TestAuthenticator_QueueFull_DropsUpdate(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	plain, err := CreateAPIKey(context.Background(), repo, "console", nil)
	require.NoError(t, err)

	block := make(chan struct{})
	blocking := &blockingRepository{mockRepository: repo, block: block}
	a := newAuthenticator(t, blocking, Config{UpdateQueueSize: 1})

	// First update occupies the worker, second fills the queue, the rest are dropped.
	for range 5 {
		_, err := a.ValidateAPIKey(context.Background(), plain)
		require.NoError(t, err)
	}
	close(block)

	shutdown(t, a)
	assert.LessOrEqual(t, len(repo.calls()), 2)
}

func TestAuthenticator_Defaults(t *testing.T) {
	t.Parallel()

	a := newAuthenticator(t, newMockRepository(), Config{OperationTimeout: -1, UpdateQueueSize: 0})
	assert.Equal(t, DefaultOperationTimeout, a.operationTimeout)
	assert.Equal(t, DefaultUpdateQueueSize, cap(a.lastUsedUpdates))
}

// blockingRepository holds UpdateLastUsed until block is closed.
type blockingRepository struct {
	*mockRepository
	block chan struct{}
}

func (b *blockingRepository) UpdateLastUsed(ctx context.Context, keyID string, timestamp time.Time) error {
	<-b.block
	return b.mockRepository.UpdateLastUsed(ctx, keyID, timestamp)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
