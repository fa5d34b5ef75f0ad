// Package fs stores listing snapshots as JSON files in a local directory.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
)

var _ snapshot.Store = (*Store)(nil)

// Store is a filesystem-based implementation of snapshot.Store.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) filePath(kind domain.Kind) string {
	return filepath.Join(s.baseDir, string(kind)+".json")
}

// Put writes the snapshot through a temp file and rename, so readers never
// observe a partial file.
func (s *Store) Put(_ context.Context, snap *domain.Snapshot) error {
	kind, err := domain.NewKind(string(snap.Kind))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+string(kind)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath(kind)); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Get reads the snapshot of kind.
func (s *Store) Get(_ context.Context, kind domain.Kind) (*domain.Snapshot, error) {
	kind, err := domain.NewKind(string(kind))
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, kind)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// List loads every snapshot file in parallel. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var (
		mu    sync.Mutex
		snaps []*domain.Snapshot
		wg    sync.WaitGroup
	)

	// Bounded to avoid "too many open files" on large directories.
	const maxConcurrency = 8
	semaphore := make(chan struct{}, maxConcurrency)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		semaphore <- struct{}{}
		wg.Go(func() {
			defer func() { <-semaphore }()

			data, err := os.ReadFile(filepath.Join(s.baseDir, name))
			if err != nil {
				slog.WarnContext(ctx, "skipping unreadable snapshot", slog.String("file", name), slog.Any("error", err))
				return
			}
			var snap domain.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				slog.WarnContext(ctx, "skipping corrupt snapshot", slog.String("file", name), slog.Any("error", err))
				return
			}
			mu.Lock()
			snaps = append(snaps, &snap)
			mu.Unlock()
		})
	}

	wg.Wait()
	return snaps, nil
}
