package domain

import (
	"fmt"
	"strings"
)

// Facet tags one of the mutually exclusive retrieval modes of a listing.
type Facet string

const (
	FacetNone     Facet = "none"
	FacetSearch   Facet = "search"
	FacetCategory Facet = "category"
	FacetStatus   Facet = "status"
)

// Facets lists every facet in precedence order.
var Facets = []Facet{FacetSearch, FacetCategory, FacetStatus, FacetNone}

// NewFacet validates and creates a Facet. Empty input is FacetNone.
func NewFacet(s string) (Facet, error) {
	f := Facet(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FacetNone, nil
	}
	for _, facet := range Facets {
		if f == facet {
			return facet, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidFacet, s)
}

// Param returns the query parameter name the remote listing API uses for the facet.
// FacetNone has no parameter.
func (f Facet) Param() string {
	switch f {
	case FacetSearch:
		return "q"
	case FacetCategory:
		return "category"
	case FacetStatus:
		return "status"
	default:
		return ""
	}
}

// FacetInputs holds the raw filter inputs of a screen. They are independent and
// may all be populated at once; only one is honored.
type FacetInputs struct {
	SearchText string // committed (post-debounce) search text
	Category   string // empty = no category
	Status     string // StatusAll or "" = no status
}

// Selection is the active facet together with its value.
// The zero value selects the default listing.
type Selection struct {
	Facet Facet
	Value string
}

// NoSelection selects the default paginated listing.
func NoSelection() Selection {
	return Selection{Facet: FacetNone}
}

// SearchSelection selects free-text search.
func SearchSelection(q string) Selection {
	return Selection{Facet: FacetSearch, Value: q}
}

// CategorySelection selects a category filter.
func CategorySelection(category string) Selection {
	return Selection{Facet: FacetCategory, Value: category}
}

// StatusSelection selects a status filter.
func StatusSelection(status ContentStatus) Selection {
	return Selection{Facet: FacetStatus, Value: string(status)}
}

// ActiveFacet returns the facet, treating the zero value as FacetNone.
func (s Selection) ActiveFacet() Facet {
	if s.Facet == "" {
		return FacetNone
	}
	return s.Facet
}

// Validate checks that the value matches the facet.
func (s Selection) Validate() error {
	switch s.ActiveFacet() {
	case FacetNone:
		if s.Value != "" {
			return fmt.Errorf("%w: default listing takes no value", ErrInvalidFacet)
		}
		return nil
	case FacetSearch, FacetCategory:
		if strings.TrimSpace(s.Value) == "" {
			return ErrEmptyFacetValue
		}
		return nil
	case FacetStatus:
		_, err := NewContentStatus(s.Value)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrInvalidFacet, s.Facet)
	}
}

func (s Selection) String() string {
	if s.ActiveFacet() == FacetNone {
		return string(FacetNone)
	}
	return fmt.Sprintf("%s=%q", s.Facet, s.Value)
}

// SelectionFromParams builds a Selection from remote API query parameters.
// At most one of q, category and status may be non-empty; status "all" counts as empty.
func SelectionFromParams(q, category, status string) (Selection, error) {
	q = strings.TrimSpace(q)
	category = strings.TrimSpace(category)
	status = strings.TrimSpace(status)
	if strings.EqualFold(status, StatusAll) {
		status = ""
	}

	set := 0
	for _, v := range []string{q, category, status} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return Selection{}, ErrConflictingFacets
	}

	switch {
	case q != "":
		return SearchSelection(q), nil
	case category != "":
		return CategorySelection(category), nil
	case status != "":
		cs, err := NewContentStatus(status)
		if err != nil {
			return Selection{}, err
		}
		return StatusSelection(cs), nil
	default:
		return NoSelection(), nil
	}
}
