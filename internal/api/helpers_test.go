package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelops/fieldsync/internal/canonical"
	"github.com/kestrelops/fieldsync/internal/chain"
	"github.com/kestrelops/fieldsync/internal/config"
	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// testServerTime is the pinned clock of every test server, so response
// bodies are reproducible byte for byte.
const testServerTime = "2025-06-01T12:00:00Z"

// newTestServer builds a server over a fresh store with a pinned clock.
func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	srv := NewServer(st, &cfg)
	srv.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return srv, st
}

// seedTenantUser provisions a tenant and one of its users so ingest
// preflight checks pass.
func seedTenantUser(t *testing.T, st *store.Store, tenantID, userID string) {
	t.Helper()

	tenants := []store.Tenant{{
		ID:        tenantID,
		Data:      `{"name":"Test Tenant"}`,
		CreatedAt: "2025-01-01T00:00:00Z",
	}}
	rows := []store.SeedRow{{
		Kind: "users",
		Row: record.Row{
			ID:         userID,
			TenantID:   tenantID,
			ObjectName: "user",
			ObjectType: "user",
			Status:     "active",
			Data:       []byte(`{"first_name":"Dana","last_name":"Reyes"}`),
			CreatedAt:  "2025-01-01T00:00:00Z",
			UpdatedAt:  "2025-01-01T00:00:00Z",
		},
	}}

	_, err := st.Seed(context.Background(), tenants, rows)
	require.NoError(t, err)
}

// makeOverlay builds a job overlay with correct client-side hashes.
func makeOverlay(t *testing.T, id, tenantID, userID, objectID, changes, createdAt, prev string) chain.Overlay {
	t.Helper()

	canon, err := canonical.Canonicalize([]byte(changes))
	require.NoError(t, err)

	contentHash := chain.ContentHash(id, tenantID, userID, createdAt, "job", objectID, canon)
	return chain.Overlay{
		ID:                id,
		TenantID:          tenantID,
		ObjectID:          objectID,
		ObjectName:        "job",
		Changes:           json.RawMessage(changes),
		CreatedAt:         createdAt,
		StateHash:         chain.StateHash(contentHash, prev),
		PreviousStateHash: prev,
	}
}

func doGet(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func doPost(t *testing.T, srv *Server, userID string, overlays []chain.Overlay) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(overlays)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) statusResponse {
	t.Helper()

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
