package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
)

// Default configuration values.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	Clock           clock.Clock // Defaults to the real clock
}

// Service provides business logic for content items of every kind.
type Service struct {
	repo      Repository
	publisher EventPublisher
	config    Config
	clock     clock.Clock
}

// NewService creates a new content service. publisher may be nil.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, publisher EventPublisher, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	config.DefaultPageSize = min(config.DefaultPageSize, config.MaxPageSize)
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	return &Service{
		repo:      repo,
		publisher: publisher,
		config:    config,
		clock:     config.Clock,
	}
}

// CreateItem validates and stores a new item.
func (s *Service) CreateItem(ctx context.Context, params domain.NewItemParams) (*domain.Item, error) {
	title, err := domain.NewTitle(params.Title)
	if err != nil {
		return nil, err
	}
	site := strings.TrimSpace(params.Site)
	if site == "" {
		return nil, domain.ErrSiteRequired
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.clock.Now().UTC()
	item := &domain.Item{
		ID:        idObj.String(),
		Kind:      params.Kind,
		Site:      site,
		Title:     title.String(),
		Summary:   strings.TrimSpace(params.Summary),
		Category:  strings.TrimSpace(params.Category),
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.publish(ctx, created.Kind, domain.MutationCreate, created.ID)
	return created, nil
}

// GetItem retrieves an item by kind and ID.
func (s *Service) GetItem(ctx context.Context, kind domain.Kind, id string) (*domain.Item, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindItemByID(ctx, kind, id)
}

// UpdateItem applies a partial update.
func (s *Service) UpdateItem(ctx context.Context, kind domain.Kind, id string, params domain.UpdateItemParams) (*domain.Item, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	existing, err := s.repo.FindItemByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	item, err := params.Apply(*existing)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt = s.clock.Now().UTC()

	updated, err := s.repo.UpdateItem(ctx, &item)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.publish(ctx, kind, domain.MutationUpdate, id)
	return updated, nil
}

// DeleteItem removes an item.
func (s *Service) DeleteItem(ctx context.Context, kind domain.Kind, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, kind, id); err != nil {
		return err
	}

	s.publish(ctx, kind, domain.MutationDelete, id)
	return nil
}

// ListItems returns one page of a faceted listing.
// page is 1-based; pageSize is clamped to the configured maximum and defaults when non-positive.
func (s *Service) ListItems(ctx context.Context, kind domain.Kind, sel domain.Selection, page, pageSize int) (domain.ListingResult[domain.Item], error) {
	if page < 1 {
		return domain.ListingResult[domain.Item]{}, domain.ErrInvalidPage
	}
	if err := sel.Validate(); err != nil {
		return domain.ListingResult[domain.Item]{}, err
	}

	if pageSize <= 0 {
		pageSize = s.config.DefaultPageSize
	}
	pageSize = min(pageSize, s.config.MaxPageSize)

	query := domain.ListingQuery{Selection: sel, Page: page, PageSize: pageSize}
	paged, err := s.repo.FindItems(ctx, domain.ListItemsParams{
		Kind:      kind,
		Selection: sel,
		Limit:     pageSize,
		Offset:    query.Offset(),
	})
	if err != nil {
		return domain.ListingResult[domain.Item]{}, fmt.Errorf("failed to list items: %w", err)
	}

	return domain.NewListingResult(paged.Items, paged.TotalCount, pageSize), nil
}

// Retriever adapts the service to a single-kind listing retriever.
func (s *Service) Retriever(kind domain.Kind) *KindRetriever {
	return &KindRetriever{service: s, kind: kind}
}

// KindRetriever serves listing queries for one content kind.
type KindRetriever struct {
	service *Service
	kind    domain.Kind
}

// Retrieve serves one listing query.
func (r *KindRetriever) Retrieve(ctx context.Context, q domain.ListingQuery) (domain.ListingResult[domain.Item], error) {
	return r.service.ListItems(ctx, r.kind, q.Selection, q.Page, q.PageSize)
}

func (s *Service) publish(ctx context.Context, kind domain.Kind, mutation domain.MutationKind, id string) {
	if s.publisher == nil {
		return
	}

	event := domain.ContentEvent{
		Kind:       kind,
		Mutation:   mutation,
		ItemID:     id,
		OccurredAt: s.clock.Now().UTC(),
	}
	// The mutation is committed; a lost event only delays other consoles' refresh.
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish content event",
			slog.String("kind", string(kind)),
			slog.String("mutation", string(mutation)),
			slog.String("item_id", id),
			slog.String("error", err.Error()))
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
