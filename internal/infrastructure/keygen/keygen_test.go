package keygen_test

import (
	"strings"
	"testing"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Short tokens back a unique index, so generating many keys in a burst must not collide.
func TestGenerateAPIKey_UniqueShortTokens(t *testing.T) {
	const numKeys = 1000
	seen := make(map[string]bool, numKeys)

	for i := range numKeys {
		parts, err := keygen.GenerateAPIKey()
		require.NoError(t, err, "key %d", i)
		require.False(t, seen[parts.ShortToken], "duplicate short token %s", parts.ShortToken)
		seen[parts.ShortToken] = true
	}
}

func TestGenerateAPIKey_RoundTrip(t *testing.T) {
	parts, err := keygen.GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(parts.FullKey, "nd_"))
	assert.Len(t, parts.ShortToken, 12)
	assert.Len(t, parts.LongSecret, 43)

	parsed, err := keygen.ParseAPIKey(parts.FullKey)
	require.NoError(t, err)
	assert.Equal(t, parts.ShortToken, parsed.ShortToken)
	assert.Equal(t, parts.LongSecret, parsed.LongSecret)
}

func TestParseAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		short   string
		secret  string
		wantErr bool
	}{
		{name: "valid", key: "nd_a3f5d8c2b4e6_secret", short: "a3f5d8c2b4e6", secret: "secret"},
		{name: "secret with separators", key: "nd_a3f5d8c2b4e6_se_cr-et", short: "a3f5d8c2b4e6", secret: "se_cr-et"},
		{name: "wrong prefix", key: "sk_a3f5d8c2b4e6_secret", wantErr: true},
		{name: "short token too short", key: "nd_a3f5_secret", wantErr: true},
		{name: "missing secret", key: "nd_a3f5d8c2b4e6_", wantErr: true},
		{name: "too few parts", key: "nd_a3f5d8c2b4e6", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := keygen.ParseAPIKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidAPIKeyFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.short, parts.ShortToken)
			assert.Equal(t, tt.secret, parts.LongSecret)
		})
	}
}

func TestHashSecret(t *testing.T) {
	h1 := keygen.HashSecret("secret")
	assert.Len(t, h1, 64)
	assert.Equal(t, h1, keygen.HashSecret("secret"))
	assert.NotEqual(t, h1, keygen.HashSecret("secret2"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "nd_a3f5d8c2b4e6_****", keygen.MaskAPIKey("nd_a3f5d8c2b4e6_topsecret"))
	assert.Equal(t, "***", keygen.MaskAPIKey("garbage"))
}
