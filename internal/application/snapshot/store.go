// Package snapshot renders the first page of each kind's default listing on a
// schedule and loads it back for consoles that hydrate from it.
package snapshot

import (
	"context"

	"github.com/rezkam/newsdesk/internal/domain"
)

// Store persists one snapshot per kind.
type Store interface {
	// Put stores s, replacing any earlier snapshot of the same kind.
	Put(ctx context.Context, s *domain.Snapshot) error

	// Get returns the latest snapshot of kind.
	// Returns domain.ErrSnapshotNotFound if none was stored.
	Get(ctx context.Context, kind domain.Kind) (*domain.Snapshot, error)

	// List returns every stored snapshot in no particular order.
	List(ctx context.Context) ([]*domain.Snapshot, error)
}

// Lister renders one listing page. content.Service satisfies it.
type Lister interface {
	ListItems(ctx context.Context, kind domain.Kind, sel domain.Selection, page, pageSize int) (domain.ListingResult[domain.Item], error)
}
