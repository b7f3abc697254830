package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/fieldsync/internal/canonical"
	"github.com/kestrelops/fieldsync/internal/chain"
	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// executeCommand runs a subcommand with the given args and captures output.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// tempDBPath returns a database path inside a fresh temp dir.
func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli_test.db")
}

// seedChainDB creates a database at path with one tenant, one user, and a
// two-entry job chain, and returns the overlays that built it.
func seedChainDB(t *testing.T, path, tenantID, userID string) []chain.Overlay {
	t.Helper()

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Seed(context.Background(), []store.Tenant{{
		ID:        tenantID,
		Data:      `{"name":"Test Tenant"}`,
		CreatedAt: "2025-01-01T00:00:00Z",
	}}, nil)
	require.NoError(t, err)
	seedCLIUser(t, st, tenantID, userID)

	o1 := buildOverlay(t, tenantID+"_c1", tenantID, userID, "j1", `{"job_number":"J-1"}`, "2025-01-01T00:00:00Z", chain.GenesisHash)
	o2 := buildOverlay(t, tenantID+"_c2", tenantID, userID, "j1", `{"status_note":"on site"}`, "2025-01-01T00:00:01Z", o1.StateHash)
	_, err = st.IngestBatch(context.Background(), userID, []chain.Overlay{o1, o2})
	require.NoError(t, err)

	return []chain.Overlay{o1, o2}
}

func seedCLIUser(t *testing.T, st *store.Store, tenantID, userID string) {
	t.Helper()

	_, err := st.Seed(context.Background(), nil, []store.SeedRow{{
		Kind: "users",
		Row: record.Row{
			ID:         userID,
			TenantID:   tenantID,
			ObjectName: "user",
			ObjectType: "user",
			Status:     "active",
			Data:       []byte(`{"email":"tech@example.com","display_name":"Test User","role":"tech"}`),
			CreatedAt:  "2025-01-01T00:00:00Z",
			UpdatedAt:  "2025-01-01T00:00:00Z",
		},
	}})
	require.NoError(t, err)
}

// buildOverlay computes hashes the way a correct client does: canonicalize
// the changes, hash the content tuple, link the state hash to prev.
func buildOverlay(t *testing.T, id, tenantID, userID, objectID, changes, createdAt, prev string) chain.Overlay {
	t.Helper()

	canon, err := canonical.Canonicalize([]byte(changes))
	require.NoError(t, err)
	content := chain.ContentHash(id, tenantID, userID, createdAt, "job", objectID, canon)
	return chain.Overlay{
		ID:                id,
		TenantID:          tenantID,
		ObjectID:          objectID,
		ObjectName:        "job",
		Changes:           json.RawMessage(changes),
		CreatedAt:         createdAt,
		StateHash:         chain.StateHash(content, prev),
		PreviousStateHash: prev,
	}
}

// tamperDB runs a raw statement against the database file, bypassing the
// store. The sqlite3 driver is registered by the store package.
func tamperDB(t *testing.T, path, query string, args ...any) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(query, args...)
	require.NoError(t, err)
}

// decodeCLIResponse parses a JSON-format command output.
func decodeCLIResponse(t *testing.T, output string) CLIResponse {
	t.Helper()

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp), "output: %s", output)
	return resp
}
