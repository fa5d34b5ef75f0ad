// Package listing implements the faceted listing controller shared by every
// content screen of the console: facet resolution, debounced search, pagination,
// gated retrieval, view projection and refetch after mutations.
package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezkam/newsdesk/internal/domain"
)

var (
	// ErrMissingBinding is returned by New when a facet has no retrieval bound.
	ErrMissingBinding = errors.New("listing: missing retrieval binding")

	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("listing: controller closed")
)

// RetrieveFunc fetches one page of a faceted listing.
type RetrieveFunc[T any] func(ctx context.Context, q domain.ListingQuery) (domain.ListingResult[T], error)

// Retriever is implemented by clients that serve every facet through one call,
// switching on q.Facet.
type Retriever[T any] interface {
	Retrieve(ctx context.Context, q domain.ListingQuery) (domain.ListingResult[T], error)
}

// Bindings holds one retrieval per facet.
type Bindings[T any] struct {
	Search   RetrieveFunc[T]
	Category RetrieveFunc[T]
	Status   RetrieveFunc[T]
	None     RetrieveFunc[T]
}

// BindAll binds every facet to r.
func BindAll[T any](r Retriever[T]) Bindings[T] {
	return Bindings[T]{
		Search:   r.Retrieve,
		Category: r.Retrieve,
		Status:   r.Retrieve,
		None:     r.Retrieve,
	}
}

// For returns the retrieval bound to f.
func (b Bindings[T]) For(f domain.Facet) RetrieveFunc[T] {
	switch f {
	case domain.FacetSearch:
		return b.Search
	case domain.FacetCategory:
		return b.Category
	case domain.FacetStatus:
		return b.Status
	default:
		return b.None
	}
}

func (b Bindings[T]) validate() error {
	for _, f := range domain.Facets {
		if b.For(f) == nil {
			return fmt.Errorf("%w: %s", ErrMissingBinding, f)
		}
	}
	return nil
}

// RetrievalError reports a failed retrieval for the active facet.
// It is never retried automatically; Controller.Retry reissues Query.
type RetrievalError struct {
	Query domain.ListingQuery
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s page %d: %v", e.Query.Selection, e.Query.Page, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// MutationError reports a failed create, update or delete. No refetch is issued for it.
type MutationError struct {
	Kind domain.MutationKind
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %s failed: %v", e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
