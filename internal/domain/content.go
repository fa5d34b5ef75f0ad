package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies a family of content managed by the console.
// Value object - immutable string enum.
type Kind string

const (
	KindArticle Kind = "articles"
	KindFeature Kind = "features"
	KindGraphic Kind = "graphics"
	KindOpinion Kind = "opinions"
	KindSection Kind = "sections"
)

// Kinds lists every content kind in display order.
var Kinds = []Kind{KindArticle, KindFeature, KindGraphic, KindOpinion, KindSection}

// NewKind validates and creates a Kind. Singular forms are accepted.
func NewKind(s string) (Kind, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(k, "s") {
		k += "s"
	}

	for _, kind := range Kinds {
		if Kind(k) == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidKind, s)
}

// ContentStatus is an editorial flag an item can carry.
// Value object - immutable string enum.
type ContentStatus string

const (
	StatusBreaking ContentStatus = "breaking"
	StatusLive     ContentStatus = "live"
	StatusHeadline ContentStatus = "headline"
	StatusTopStory ContentStatus = "topstory"
)

// StatusAll is the status filter value meaning "no status filter".
const StatusAll = "all"

// Statuses lists the filterable content statuses in cycling order.
var Statuses = []ContentStatus{StatusBreaking, StatusLive, StatusHeadline, StatusTopStory}

// NewContentStatus validates and creates a ContentStatus.
func NewContentStatus(s string) (ContentStatus, error) {
	status := ContentStatus(strings.ToLower(strings.TrimSpace(s)))

	switch status {
	case StatusBreaking, StatusLive, StatusHeadline, StatusTopStory:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
}

// Item is a read-only snapshot of a content object as the listing sees it.
// Fields beyond the listing's needs belong to the editing forms.
type Item struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Site      string         `json:"site"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary,omitempty"`
	Category  string         `json:"category,omitempty"`
	Status    *ContentStatus `json:"status,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// GetID returns the item identity.
func (i Item) GetID() string {
	return i.ID
}

// NewItemParams carries the validated-on-create fields of a new item.
type NewItemParams struct {
	Kind     Kind
	Site     string
	Title    string
	Summary  string
	Category string
	Status   *ContentStatus
}

// UpdateItemParams carries a partial update. Nil fields are left unchanged.
// ClearStatus removes the status flag and wins over Status.
type UpdateItemParams struct {
	Title       *string
	Summary     *string
	Category    *string
	Status      *ContentStatus
	ClearStatus bool
}

// IsEmpty reports whether the update changes nothing.
func (p UpdateItemParams) IsEmpty() bool {
	return p.Title == nil && p.Summary == nil && p.Category == nil && p.Status == nil && !p.ClearStatus
}

// Apply returns a copy of item with the update applied.
func (p UpdateItemParams) Apply(item Item) (Item, error) {
	if p.Title != nil {
		title, err := NewTitle(*p.Title)
		if err != nil {
			return Item{}, err
		}
		item.Title = title.String()
	}
	if p.Summary != nil {
		item.Summary = strings.TrimSpace(*p.Summary)
	}
	if p.Category != nil {
		item.Category = strings.TrimSpace(*p.Category)
	}
	if p.ClearStatus {
		item.Status = nil
	} else if p.Status != nil {
		status := *p.Status
		item.Status = &status
	}
	return item, nil
}

// APIKey is a stored credential for the listing API.
type APIKey struct {
	ID             string
	KeyType        string // "sk" = secret key
	Service        string // e.g. "newsdesk"
	Version        string // e.g. "v1"
	ShortToken     string // Indexed portion for fast lookup
	LongSecretHash string // BLAKE2b-256 hash of long secret
	Name           string
	IsActive       bool
	CreatedAt      time.Time
	LastUsedAt     *time.Time
	ExpiresAt      *time.Time
}
