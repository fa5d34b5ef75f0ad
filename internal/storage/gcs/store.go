// Package gcs stores listing snapshots as JSON objects in a Cloud Storage bucket.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
)

var _ snapshot.Store = (*Store)(nil)

// Store is a GCS-based implementation of snapshot.Store.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a GCS store writing under prefix in bucketName.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return NewStoreWithClient(client, bucketName, prefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *storage.Client, bucketName, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) objectName(kind domain.Kind) string {
	return path.Join(s.prefix, string(kind)+".json")
}

// Put uploads the snapshot, replacing any earlier object.
func (s *Store) Put(ctx context.Context, snap *domain.Snapshot) error {
	kind, err := domain.NewKind(string(snap.Kind))
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	w := s.client.Bucket(s.bucket).Object(s.objectName(kind)).NewWriter(ctx)
	w.ContentType = "application/json"
	w.CacheControl = "no-cache"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

// Get downloads the snapshot of kind.
func (s *Store) Get(ctx context.Context, kind domain.Kind) (*domain.Snapshot, error) {
	kind, err := domain.NewKind(string(kind))
	if err != nil {
		return nil, err
	}
	return s.read(ctx, s.objectName(kind))
}

func (s *Store) read(ctx context.Context, name string) (*domain.Snapshot, error) {
	r, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// List scans the prefix for snapshot objects and loads them in parallel.
// Unreadable objects are skipped.
func (s *Store) List(ctx context.Context) ([]*domain.Snapshot, error) {
	query := &storage.Query{}
	if s.prefix != "" {
		query.Prefix = s.prefix + "/"
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, query)

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, ".json") {
			names = append(names, attrs.Name)
		}
	}

	var (
		mu    sync.Mutex
		snaps []*domain.Snapshot
		wg    sync.WaitGroup
	)

	const maxConcurrency = 8
	semaphore := make(chan struct{}, maxConcurrency)

	for _, name := range names {
		semaphore <- struct{}{}
		wg.Go(func() {
			defer func() { <-semaphore }()

			snap, err := s.read(ctx, name)
			if err != nil {
				slog.WarnContext(ctx, "skipping unreadable snapshot", slog.String("object", name), slog.Any("error", err))
				return
			}
			mu.Lock()
			snaps = append(snaps, snap)
			mu.Unlock()
		})
	}

	wg.Wait()
	return snaps, nil
}
