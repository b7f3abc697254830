package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/fieldsync/internal/fixtures"
	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

func TestSeedFixedIDs(t *testing.T) {
	dbPath := tempDBPath(t)

	rootOpts := &RootOptions{Format: "text"}
	output, err := executeCommand(t, NewSeedCommand(rootOpts), "--db", dbPath, "--fixed-ids")
	require.NoError(t, err)
	assert.Contains(t, output, "Seeded 9 row(s)")
	assert.Contains(t, output, fixtures.FixedTenantID)
	assert.Contains(t, output, fixtures.FixedJobID)

	// The rows really landed
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	users, ok := record.KindByName("users")
	require.True(t, ok)
	rows, err := st.ReadRows(context.Background(), users, fixtures.FixedTenantID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSeedIdempotent(t *testing.T) {
	dbPath := tempDBPath(t)
	rootOpts := &RootOptions{Format: "text"}

	_, err := executeCommand(t, NewSeedCommand(rootOpts), "--db", dbPath, "--fixed-ids")
	require.NoError(t, err)

	output, err := executeCommand(t, NewSeedCommand(rootOpts), "--db", dbPath, "--fixed-ids")
	require.NoError(t, err)
	assert.Contains(t, output, "already seeded")
}

func TestSeedFreshIDs(t *testing.T) {
	dbPath := tempDBPath(t)

	rootOpts := &RootOptions{Format: "text"}
	output, err := executeCommand(t, NewSeedCommand(rootOpts), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Seeded 9 row(s)")
	assert.Contains(t, output, "tnt_")
	assert.NotContains(t, output, fixtures.FixedTenantID)
}

func TestSeedJSON(t *testing.T) {
	dbPath := tempDBPath(t)

	rootOpts := &RootOptions{Format: "json"}
	output, err := executeCommand(t, NewSeedCommand(rootOpts), "--db", dbPath, "--fixed-ids")
	require.NoError(t, err)

	resp := decodeCLIResponse(t, output)
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	assert.Equal(t, float64(9), data["inserted"])
	assert.Equal(t, fixtures.FixedTenantID, data["tenant_id"])
	assert.Equal(t, fixtures.FixedJobID, data["job_id"])
}

func TestSeedMissingDBFlag(t *testing.T) {
	rootOpts := &RootOptions{Format: "text"}
	_, err := executeCommand(t, NewSeedCommand(rootOpts))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "db")
}
