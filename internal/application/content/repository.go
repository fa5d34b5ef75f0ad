package content

import (
	"context"

	"github.com/rezkam/newsdesk/internal/domain"
)

// Repository defines storage operations for content items.
type Repository interface {
	// CreateItem persists a new item and returns it as stored.
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)

	// FindItemByID retrieves an item of the given kind.
	// Returns domain.ErrItemNotFound if no such item exists.
	FindItemByID(ctx context.Context, kind domain.Kind, id string) (*domain.Item, error)

	// UpdateItem overwrites the mutable fields of an existing item.
	// Returns domain.ErrItemNotFound if no such item exists.
	UpdateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)

	// DeleteItem removes an item.
	// Returns domain.ErrItemNotFound if no such item exists.
	DeleteItem(ctx context.Context, kind domain.Kind, id string) error

	// FindItems returns one page of items matching the selection, newest first,
	// together with the total count across all pages.
	FindItems(ctx context.Context, params domain.ListItemsParams) (*domain.PagedItems, error)
}

// EventPublisher announces successful mutations to other consoles.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ContentEvent) error
}
