package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rezkam/newsdesk/internal/domain"
)

const itemColumns = "id, kind, site, title, summary, category, status, created_at, updated_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item   domain.Item
		kind   string
		status sql.NullString
	)
	if err := row.Scan(&item.ID, &kind, &item.Site, &item.Title, &item.Summary,
		&item.Category, &status, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Kind = domain.Kind(kind)
	if status.Valid {
		cs := domain.ContentStatus(status.String)
		item.Status = &cs
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func nullStatus(status *domain.ContentStatus) sql.NullString {
	if status == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*status), Valid: true}
}

func parseItemID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return parsed.String(), nil
}

// CreateItem persists a new item.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	id, err := parseItemID(item.ID)
	if err != nil {
		return nil, err
	}

	stored := *item
	stored.ID = id
	stored.CreatedAt = dbTime(item.CreatedAt)
	stored.UpdatedAt = dbTime(item.UpdatedAt)

	query := s.dialect.rebind(`INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		stored.ID, string(stored.Kind), stored.Site, stored.Title, stored.Summary,
		stored.Category, nullStatus(stored.Status),
		s.dialect.timeArg(stored.CreatedAt), s.dialect.timeArg(stored.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: item %s", domain.ErrConflict, id)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &stored, nil
}

// FindItemByID retrieves an item of the given kind.
func (s *Store) FindItemByID(ctx context.Context, kind domain.Kind, id string) (*domain.Item, error) {
	itemID, err := parseItemID(id)
	if err != nil {
		return nil, err
	}

	query := s.dialect.rebind(`SELECT ` + itemColumns + ` FROM items WHERE kind = ? AND id = ?`)
	item, err := scanItem(s.db.QueryRowContext(ctx, query, string(kind), itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrItemNotFound, kind, id)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateItem overwrites the mutable fields of an existing item.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	itemID, err := parseItemID(item.ID)
	if err != nil {
		return nil, err
	}

	stored := *item
	stored.ID = itemID
	stored.UpdatedAt = dbTime(item.UpdatedAt)

	query := s.dialect.rebind(`UPDATE items
		SET title = ?, summary = ?, category = ?, status = ?, updated_at = ?
		WHERE kind = ? AND id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		stored.Title, stored.Summary, stored.Category, nullStatus(stored.Status), s.dialect.timeArg(stored.UpdatedAt),
		string(stored.Kind), itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if err := checkRowsAffected(res, stored.Kind, itemID); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, kind domain.Kind, id string) error {
	itemID, err := parseItemID(id)
	if err != nil {
		return err
	}

	query := s.dialect.rebind(`DELETE FROM items WHERE kind = ? AND id = ?`)
	res, err := s.db.ExecContext(ctx, query, string(kind), itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return checkRowsAffected(res, kind, itemID)
}

// FindItems returns one page of items matching the selection together with
// the total count. Both statements run in one read transaction.
func (s *Store) FindItems(ctx context.Context, params domain.ListItemsParams) (*domain.PagedItems, error) {
	if params.Limit <= 0 {
		return nil, domain.ErrInvalidPageSize
	}
	if params.Offset < 0 {
		return nil, domain.ErrInvalidPage
	}

	where, args, err := itemFilter(params.Kind, params.Selection)
	if err != nil {
		return nil, err
	}

	result := &domain.PagedItems{Items: []domain.Item{}}
	err = s.inReadTx(ctx, "FindItems", func(tx *sql.Tx) error {
		countQuery := s.dialect.rebind(`SELECT COUNT(*) FROM items WHERE ` + where)
		if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&result.TotalCount); err != nil {
			return fmt.Errorf("failed to count items: %w", err)
		}
		if result.TotalCount == 0 || params.Offset >= result.TotalCount {
			return nil
		}

		pageQuery := s.dialect.rebind(`SELECT ` + itemColumns + ` FROM items WHERE ` + where +
			` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`)
		rows, err := tx.QueryContext(ctx, pageQuery, append(args, params.Limit, params.Offset)...)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scanItem(rows)
			if err != nil {
				return fmt.Errorf("failed to scan item: %w", err)
			}
			result.Items = append(result.Items, *item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	result.HasMore = params.Offset+len(result.Items) < result.TotalCount
	return result, nil
}

// itemFilter builds the WHERE clause for a kind and selection.
// Search is a case-insensitive substring match over title and summary.
// Category matches case-insensitively; status matches exactly.
func itemFilter(kind domain.Kind, sel domain.Selection) (string, []any, error) {
	clauses := []string{"kind = ?"}
	args := []any{string(kind)}

	switch sel.ActiveFacet() {
	case domain.FacetNone:
	case domain.FacetSearch:
		pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(sel.Value))) + "%"
		clauses = append(clauses, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	case domain.FacetCategory:
		clauses = append(clauses, "LOWER(category) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(sel.Value)))
	case domain.FacetStatus:
		status, err := domain.NewContentStatus(sel.Value)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "status = ?")
		args = append(args, string(status))
	default:
		return "", nil, fmt.Errorf("%w: %s", domain.ErrInvalidFacet, sel.Facet)
	}

	return strings.Join(clauses, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// checkRowsAffected maps a zero-row UPDATE/DELETE to ErrItemNotFound.
func checkRowsAffected(res sql.Result, kind domain.Kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrItemNotFound, kind, id)
	}
	return nil
}
