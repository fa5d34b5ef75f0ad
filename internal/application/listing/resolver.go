package listing

import (
	"strings"

	"github.com/rezkam/newsdesk/internal/domain"
)

// Resolve picks the single active facet for inputs. First match wins:
// committed search text, then category, then status, then the default listing.
// Category and status are never combined.
func Resolve(inputs domain.FacetInputs) domain.Selection {
	if q := strings.TrimSpace(inputs.SearchText); q != "" {
		return domain.SearchSelection(q)
	}
	if category := strings.TrimSpace(inputs.Category); category != "" {
		return domain.CategorySelection(category)
	}
	if status := strings.TrimSpace(inputs.Status); status != "" && !strings.EqualFold(status, domain.StatusAll) {
		return domain.Selection{Facet: domain.FacetStatus, Value: strings.ToLower(status)}
	}
	return domain.NoSelection()
}
