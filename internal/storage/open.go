// Package storage selects the snapshot store backend from configuration.
// The backends live in the fs, gcs and redisstore subpackages.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/config"
	"github.com/rezkam/newsdesk/internal/storage/fs"
	"github.com/rezkam/newsdesk/internal/storage/gcs"
	"github.com/rezkam/newsdesk/internal/storage/redisstore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the configured snapshot store. The closer releases the
// backend's client. Backend "none" returns a nil store and no error.
func Open(ctx context.Context, cfg config.SnapshotStoreConfig) (snapshot.Store, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case config.SnapshotBackendNone:
		return nil, nopCloser{}, nil
	case config.SnapshotBackendFS:
		store, err := fs.NewStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case config.SnapshotBackendGCS:
		store, err := gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.SnapshotBackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStore(client, redisstore.DefaultKeyPrefix, cfg.RedisTTL), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
