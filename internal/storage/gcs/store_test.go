package gcs

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/rezkam/newsdesk/internal/application/snapshot"
	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/storage/compliance"
)

func TestGCSStore_Compliance(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set, skipping GCS tests")
	}

	compliance.RunSnapshotStoreComplianceTest(t, func() (snapshot.Store, func()) {
		// Assumes Application Default Credentials with access to the bucket.
		ctx := context.Background()
		prefix := "newsdesk-test/" + uuid.NewString()

		store, err := NewStore(ctx, bucket, prefix)
		require.NoError(t, err)

		cleanup := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			defer store.Close()

			it := store.client.Bucket(bucket).Objects(cleanupCtx, &storage.Query{Prefix: prefix + "/"})
			for {
				attrs, err := it.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					t.Logf("Warning: failed to list objects during cleanup: %v", err)
					break
				}
				if err := store.client.Bucket(bucket).Object(attrs.Name).Delete(cleanupCtx); err != nil {
					t.Logf("Warning: failed to delete object %s: %v", attrs.Name, err)
				}
			}
		}

		return store, cleanup
	})
}

func TestObjectName(t *testing.T) {
	s := &Store{prefix: "snapshots"}
	assert.Equal(t, "snapshots/articles.json", s.objectName(domain.KindArticle))

	s = &Store{}
	assert.Equal(t, "opinions.json", s.objectName(domain.KindOpinion))
}
