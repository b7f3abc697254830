package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// seedJob loads one job row directly, bypassing the ingest path.
func seedJob(t *testing.T, st *store.Store, tenantID, id, data, at string) {
	t.Helper()

	_, err := st.Seed(context.Background(), nil, []store.SeedRow{{
		Kind: "jobs",
		Row: record.Row{
			ID:         id,
			TenantID:   tenantID,
			ObjectName: "job",
			ObjectType: "job",
			Status:     "active",
			Data:       []byte(data),
			CreatedAt:  at,
			UpdatedAt:  at,
		},
	}})
	require.NoError(t, err)
}

func TestBundle_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/sync?tenant_id=t1&since=1970-01-01T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Meta record.Meta                `json:"meta"`
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, testServerTime, resp.Meta.ServerTime)
	assert.Equal(t, "1970-01-01T00:00:00Z", resp.Meta.Since)

	require.Len(t, resp.Data, len(record.Kinds()))
	for _, kind := range record.Kinds() {
		assert.Equal(t, "[]", string(resp.Data[kind.Name]), "kind %s", kind.Name)
	}
}

func TestBundle_DefaultSince(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/sync?tenant_id=t1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bundleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.EpochSince, resp.Meta.Since)
}

func TestBundle_MissingTenantID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/sync")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeStatus(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "tenant_id is required", resp.Message)
}

func TestBundle_InvalidSince(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/sync?tenant_id=t1&since=yesterday")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeStatus(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "since must be an RFC 3339 UTC timestamp with a Z suffix", resp.Message)
}

func TestBundle_NonUTCSinceRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	// Valid RFC 3339, but an offset form: its raw string would compare
	// wrongly against the Z-suffixed stored timestamps
	rec := doGet(t, srv, "/sync?tenant_id=t1&since=2025-01-01T02:00:00%2B02:00")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeStatus(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "since must be an RFC 3339 UTC timestamp with a Z suffix", resp.Message)
}

func TestBundle_SinceFiltersRows(t *testing.T) {
	srv, st := newTestServer(t)
	seedTenantUser(t, st, "t1", "u1")
	seedJob(t, st, "t1", "j1", `{"job_number":"J-1"}`, "2025-02-01T00:00:00Z")
	seedJob(t, st, "t1", "j2", `{"job_number":"J-2"}`, "2025-03-01T00:00:00Z")

	rec := doGet(t, srv, "/sync?tenant_id=t1&since=2025-02-15T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bundleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Jobs, 1)
	assert.Equal(t, "j2", resp.Data.Jobs[0].ID)
}

func TestBundle_TenantIsolation(t *testing.T) {
	srv, st := newTestServer(t)
	seedTenantUser(t, st, "t1", "u1")
	seedTenantUser(t, st, "t2", "u2")
	seedJob(t, st, "t1", "j1", `{"job_number":"J-1"}`, "2025-02-01T00:00:00Z")

	rec := doGet(t, srv, "/sync?tenant_id=t2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bundleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Jobs)
	require.Len(t, resp.Data.Users, 1)
	assert.Equal(t, "u2", resp.Data.Users[0].ID)
}

func TestBundle_Deterministic(t *testing.T) {
	srv, st := newTestServer(t)
	seedTenantUser(t, st, "t1", "u1")
	seedJob(t, st, "t1", "j1", `{"job_number":"J-1"}`, "2025-02-01T00:00:00Z")

	first := doGet(t, srv, "/sync?tenant_id=t1&since=1970-01-01T00:00:00Z")
	second := doGet(t, srv, "/sync?tenant_id=t1&since=1970-01-01T00:00:00Z")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestBundle_GoldenEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGet(t, srv, "/sync?tenant_id=t1&since=1970-01-01T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "bundle_empty", rec.Body.Bytes())
}

func TestBundle_GoldenSeeded(t *testing.T) {
	srv, st := newTestServer(t)
	seedTenantUser(t, st, "t1", "u1")
	seedJob(t, st, "t1", "j1", `{"job_number":"J-1001","title":"Annual maintenance"}`, "2025-01-02T00:00:00Z")

	rec := doGet(t, srv, "/sync?tenant_id=t1&since=1970-01-01T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "bundle_seeded", rec.Body.Bytes())
}
