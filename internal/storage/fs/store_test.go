package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/storage/compliance"
)

func TestFSStore_Compliance(t *testing.T) {
	compliance.RunSnapshotStoreComplianceTest(t, func() (snapshot.Store, func()) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		return store, func() {}
	})
}

func TestFSStore_ListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.Snapshot{Kind: domain.KindFeature, PageSize: 25}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sections.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	snaps, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, domain.KindFeature, snaps[0].Kind)

	_, err = store.Get(ctx, domain.KindSection)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestFSStore_RejectsUnknownKind(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), &domain.Snapshot{Kind: "../etc"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = store.Get(context.Background(), "../etc")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}
