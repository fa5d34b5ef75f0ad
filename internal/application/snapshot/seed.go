package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/rezkam/newsdesk/internal/domain"
)

// Seed loads the snapshot of kind for a controller mounting with pageSize.
// It reports false, without error, when no usable snapshot exists: none stored,
// rendered with a different page size, or older than maxAge.
func Seed(ctx context.Context, store Store, kind domain.Kind, pageSize int, maxAge time.Duration, now time.Time) (domain.ListingResult[domain.Item], bool, error) {
	snap, err := store.Get(ctx, kind)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return domain.ListingResult[domain.Item]{}, false, nil
		}
		return domain.ListingResult[domain.Item]{}, false, err
	}
	if snap.PageSize != pageSize || !snap.Fresh(now, maxAge) {
		return domain.ListingResult[domain.Item]{}, false, nil
	}
	return snap.Result(), true, nil
}
