package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rezkam/newsdesk/internal/domain"
	"golang.org/x/crypto/blake2b"
)

// Key metadata stored alongside every generated key.
const (
	Prefix  = "nd"
	KeyType = "sk"
	Service = "newsdesk"
	Version = "v1"
)

// shortTokenLen is the hex length of the lookup token (6 bytes of BLAKE2b).
const shortTokenLen = 12

// APIKeyParts represents the components of an API key.
type APIKeyParts struct {
	ShortToken string // indexed lookup token, 12 hex chars
	LongSecret string // 32 random bytes, base64url without padding
	FullKey    string // nd_<short>_<long>
}

// GenerateAPIKey creates a key of the form nd_<short_token>_<long_secret>.
// The short token is derived from the BLAKE2b hash of the long secret.
func GenerateAPIKey() (*APIKeyParts, error) {
	longBytes := make([]byte, 32)
	if _, err := rand.Read(longBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	longSecret := base64.RawURLEncoding.EncodeToString(longBytes)

	hash := blake2b.Sum256([]byte(longSecret))
	shortToken := hex.EncodeToString(hash[:shortTokenLen/2])

	return &APIKeyParts{
		ShortToken: shortToken,
		LongSecret: longSecret,
		FullKey:    Prefix + "_" + shortToken + "_" + longSecret,
	}, nil
}

// ParseAPIKey splits a key into its components.
// The long secret may itself contain '_' and '-'.
func ParseAPIKey(apiKey string) (*APIKeyParts, error) {
	parts := strings.SplitN(apiKey, "_", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 parts, got %d", domain.ErrInvalidAPIKeyFormat, len(parts))
	}
	if parts[0] != Prefix {
		return nil, fmt.Errorf("%w: unknown prefix %q", domain.ErrInvalidAPIKeyFormat, parts[0])
	}
	if len(parts[1]) != shortTokenLen {
		return nil, fmt.Errorf("%w: short token must be %d chars", domain.ErrInvalidAPIKeyFormat, shortTokenLen)
	}
	if parts[2] == "" {
		return nil, fmt.Errorf("%w: missing secret", domain.ErrInvalidAPIKeyFormat)
	}

	return &APIKeyParts{
		ShortToken: parts[1],
		LongSecret: parts[2],
		FullKey:    apiKey,
	}, nil
}

// DisplayKey returns the key with the secret masked, e.g. "nd_a3f5d8c2b4e6_****".
func (k *APIKeyParts) DisplayKey() string {
	return Prefix + "_" + k.ShortToken + "_****"
}

// HashSecret returns the hex-encoded BLAKE2b-256 hash of the secret.
func HashSecret(secret string) string {
	hash := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// MaskAPIKey returns a loggable form of a key.
func MaskAPIKey(apiKey string) string {
	parts, err := ParseAPIKey(apiKey)
	if err != nil {
		return "***"
	}
	return parts.DisplayKey()
}
