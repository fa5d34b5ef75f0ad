// Package compliance holds the behavior every snapshot.Store must share.
package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
)

func sampleSnapshot(kind domain.Kind, generatedAt time.Time) *domain.Snapshot {
	live := domain.StatusLive
	return &domain.Snapshot{
		Kind: kind,
		Items: []domain.Item{
			{ID: "0190a3e4-0000-7000-8000-000000000001", Kind: kind, Site: "news", Title: "First", Status: &live,
				CreatedAt: generatedAt, UpdatedAt: generatedAt},
			{ID: "0190a3e4-0000-7000-8000-000000000002", Kind: kind, Site: "news", Title: "Second", Category: "sport",
				CreatedAt: generatedAt, UpdatedAt: generatedAt},
		},
		Total:       42,
		TotalPages:  21,
		PageSize:    2,
		GeneratedAt: generatedAt,
	}
}

// RunSnapshotStoreComplianceTest runs the shared behavior against a store.
// setup returns a fresh store and a cleanup function.
func RunSnapshotStoreComplianceTest(t *testing.T, setup func() (snapshot.Store, func())) {
	generatedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("PutAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		want := sampleSnapshot(domain.KindArticle, generatedAt)
		require.NoError(t, store.Put(ctx, want))

		got, err := store.Get(ctx, domain.KindArticle)
		require.NoError(t, err)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Total, got.Total)
		assert.Equal(t, want.TotalPages, got.TotalPages)
		assert.Equal(t, want.PageSize, got.PageSize)
		assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
		require.Len(t, got.Items, 2)
		assert.Equal(t, "First", got.Items[0].Title)
		require.NotNil(t, got.Items[0].Status)
		assert.Equal(t, domain.StatusLive, *got.Items[0].Status)
		assert.Nil(t, got.Items[1].Status)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, sampleSnapshot(domain.KindOpinion, generatedAt)))
		newer := sampleSnapshot(domain.KindOpinion, generatedAt.Add(time.Minute))
		newer.Total = 43
		require.NoError(t, store.Put(ctx, newer))

		got, err := store.Get(ctx, domain.KindOpinion)
		require.NoError(t, err)
		assert.Equal(t, 43, got.Total)
		assert.True(t, newer.GeneratedAt.Equal(got.GeneratedAt))
	})

	t.Run("List", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Put(ctx, sampleSnapshot(domain.KindArticle, generatedAt)))
		require.NoError(t, store.Put(ctx, sampleSnapshot(domain.KindGraphic, generatedAt)))

		snaps, err := store.List(ctx)
		require.NoError(t, err)

		kinds := make(map[domain.Kind]bool)
		for _, s := range snaps {
			kinds[s.Kind] = true
		}
		assert.True(t, kinds[domain.KindArticle])
		assert.True(t, kinds[domain.KindGraphic])
	})

	t.Run("GetMissing", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Get(context.Background(), domain.KindSection)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})
}
