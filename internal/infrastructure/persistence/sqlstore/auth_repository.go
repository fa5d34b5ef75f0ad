package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/newsdesk/internal/domain"
)

// === Auth Repository Implementation ===

// FindByShortToken retrieves an API key by its short token for validation.
func (s *Store) FindByShortToken(ctx context.Context, shortToken string) (*domain.APIKey, error) {
	query := s.dialect.rebind(`SELECT id, key_type, service, version, short_token, long_secret_hash,
		name, is_active, created_at, last_used_at, expires_at
		FROM api_keys WHERE short_token = ?`)

	var (
		key       domain.APIKey
		lastUsed  sql.NullTime
		expiresAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, shortToken).Scan(
		&key.ID, &key.KeyType, &key.Service, &key.Version, &key.ShortToken, &key.LongSecretHash,
		&key.Name, &key.IsActive, &key.CreatedAt, &lastUsed, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: API key", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}

	key.CreatedAt = key.CreatedAt.UTC()
	key.LastUsedAt = timePtr(lastUsed)
	key.ExpiresAt = timePtr(expiresAt)
	return &key, nil
}

// UpdateLastUsed moves the last used timestamp forward.
// An older timestamp is an idempotent no-op; an unknown key is ErrNotFound.
func (s *Store) UpdateLastUsed(ctx context.Context, keyID string, timestamp time.Time) error {
	id, err := uuid.Parse(keyID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	query := s.dialect.rebind(`UPDATE api_keys SET last_used_at = ?
		WHERE id = ? AND (last_used_at IS NULL OR last_used_at < ?)`)
	ts := s.dialect.timeArg(timestamp)
	res, err := s.db.ExecContext(ctx, query, ts, id.String(), ts)
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Either the key doesn't exist or the timestamp wasn't later.
	var exists int
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT 1 FROM api_keys WHERE id = ?`), id.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: API key", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check key existence: %w", err)
	}
	return nil
}

// Create stores a new API key.
func (s *Store) Create(ctx context.Context, key *domain.APIKey) error {
	id, err := uuid.Parse(key.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	query := s.dialect.rebind(`INSERT INTO api_keys (id, key_type, service, version, short_token,
		long_secret_hash, name, is_active, created_at, last_used_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		id.String(), key.KeyType, key.Service, key.Version, key.ShortToken,
		key.LongSecretHash, key.Name, key.IsActive, s.dialect.timeArg(key.CreatedAt),
		s.dialect.nullTimeArg(key.LastUsedAt), s.dialect.nullTimeArg(key.ExpiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: API key", domain.ErrConflict)
		}
		return fmt.Errorf("failed to create API key: %w", err)
	}
	return nil
}
