// Package redisstore stores listing snapshots as JSON strings in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
)

// DefaultKeyPrefix namespaces snapshot keys.
const DefaultKeyPrefix = "newsdesk:snapshot:"

const dialTimeout = 5 * time.Second

var _ snapshot.Store = (*Store)(nil)

// Cmdable is the subset of the go-redis client the store uses.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// Store is a Redis-based implementation of snapshot.Store.
type Store struct {
	client Cmdable
	prefix string
	ttl    time.Duration
}

// NewClient connects and pings.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(dialCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewStore wraps client. A zero ttl keeps snapshots until they are replaced.
func NewStore(client Cmdable, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(kind domain.Kind) string {
	return s.prefix + string(kind)
}

// Put stores the snapshot, replacing any earlier value.
func (s *Store) Put(ctx context.Context, snap *domain.Snapshot) error {
	kind, err := domain.NewKind(string(snap.Kind))
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(kind), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(kind), err)
	}
	return nil
}

// Get returns the snapshot of kind.
func (s *Store) Get(ctx context.Context, kind domain.Kind) (*domain.Snapshot, error) {
	kind, err := domain.NewKind(string(kind))
	if err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.key(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, kind)
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key(kind), err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// List fetches the snapshots of every known kind in one round trip.
func (s *Store) List(ctx context.Context) ([]*domain.Snapshot, error) {
	keys := make([]string, len(domain.Kinds))
	for i, kind := range domain.Kinds {
		keys[i] = s.key(kind)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	snaps := make([]*domain.Snapshot, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			slog.WarnContext(ctx, "skipping corrupt snapshot", slog.String("key", keys[i]), slog.Any("error", err))
			continue
		}
		snaps = append(snaps, &snap)
	}
	return snaps, nil
}
