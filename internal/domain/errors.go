package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a unique constraint rejected the write.
	ErrConflict = errors.New("resource already exists")

	// ErrItemNotFound indicates the content item does not exist for the given kind.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrInvalidKind indicates an unknown content kind.
	ErrInvalidKind = errors.New("invalid content kind")

	// ErrInvalidStatus indicates a status outside breaking/live/headline/topstory.
	ErrInvalidStatus = errors.New("invalid content status")

	// ErrInvalidFacet indicates an unknown facet tag.
	ErrInvalidFacet = errors.New("invalid facet")

	// ErrConflictingFacets indicates more than one of q/category/status was supplied.
	ErrConflictingFacets = errors.New("only one of q, category or status may be set")

	// ErrEmptyFacetValue indicates a search/category/status facet without a value.
	ErrEmptyFacetValue = errors.New("facet value is required")

	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("page must be at least 1")

	// ErrInvalidPageSize indicates a page size below 1.
	ErrInvalidPageSize = errors.New("page size must be positive")

	// ErrTitleRequired indicates an empty title.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates a title longer than 255 characters.
	ErrTitleTooLong = errors.New("title must be at most 255 characters")

	// ErrSiteRequired indicates an item without a site.
	ErrSiteRequired = errors.New("site is required")

	// ErrEmptyUpdate indicates an update request that changes nothing.
	ErrEmptyUpdate = errors.New("update must change at least one field")

	// ErrUnauthorized indicates a missing, malformed, expired or unknown API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAPIKeyFormat indicates an API key that cannot be parsed.
	ErrInvalidAPIKeyFormat = errors.New("invalid API key format")

	// ErrSnapshotNotFound indicates no hydration snapshot has been rendered yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
