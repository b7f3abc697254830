package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/kestrelops/fieldsync/internal/canonical"
	"github.com/kestrelops/fieldsync/internal/chain"
	"github.com/kestrelops/fieldsync/internal/record"
)

// createTestStore creates a new store backed by a temp file for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTenant inserts a tenant row the ingest preflight will accept.
func seedTenant(t *testing.T, s *Store, tenantID string) {
	t.Helper()
	_, err := s.Seed(context.Background(), []Tenant{{
		ID:        tenantID,
		Data:      `{"name":"Test Tenant","plan":"premium"}`,
		CreatedAt: "2025-01-01T00:00:00Z",
	}}, nil)
	if err != nil {
		t.Fatalf("Seed() tenant failed: %v", err)
	}
}

// seedUser inserts a user row under the tenant.
func seedUser(t *testing.T, s *Store, tenantID, userID string) {
	t.Helper()
	_, err := s.Seed(context.Background(), nil, []SeedRow{{
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
	if err != nil {
		t.Fatalf("Seed() user failed: %v", err)
	}
}

// makeOverlay builds a job overlay with hashes computed the way a correct
// client computes them: canonicalize the changes, hash the content tuple,
// then link the state hash to prev.
func makeOverlay(t *testing.T, id, tenantID, userID, objectID, changes, createdAt, prev string) chain.Overlay {
	t.Helper()
	canon, err := canonical.Canonicalize([]byte(changes))
	if err != nil {
		t.Fatalf("Canonicalize() failed: %v", err)
	}
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
