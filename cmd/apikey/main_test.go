package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/config"
)

func TestRun_PrintsKey(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.APIKeyGenConfig{
		Database:  config.DatabaseConfig{DSN: "sqlite::memory:"},
		Name:      "ci",
		DaysValid: 7,
	}

	require.NoError(t, run(context.Background(), &out, cfg))
	assert.Contains(t, out.String(), "API key: nd_")
	assert.Contains(t, out.String(), "(7 days)")
}

func TestRootCmd_RequiresName(t *testing.T) {
	t.Setenv("NEWSDESK_DB_DSN", "sqlite::memory:")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--days", "3"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
