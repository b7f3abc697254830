package store

import (
	"errors"
	"fmt"
)

// SyncError represents a protocol-level rejection on the sync paths.
//
// Sync errors include:
//   - Unknown tenant or user in an ingest preflight
//   - A recomputed state hash disagreeing with the client's
//   - An overlay linking to a stale chain head
//   - A replay anchor the chain does not contain
//
// SyncError includes structured fields so handlers can echo diagnostics
// back to the client.
type SyncError struct {
	// Code identifies the error category.
	Code SyncErrorCode

	// Message is a human-readable description.
	Message string

	// TenantID identifies the affected tenant, when known.
	TenantID string

	// Details contains additional context, echoed verbatim in responses.
	Details map[string]string
}

// SyncErrorCode categorizes sync errors. Values are the stable wire codes.
type SyncErrorCode string

const (
	// ErrCodeInvalidTenant indicates the referenced tenant does not exist.
	ErrCodeInvalidTenant SyncErrorCode = "invalid_tenant"

	// ErrCodeInvalidUser indicates the referenced user does not exist.
	ErrCodeInvalidUser SyncErrorCode = "invalid_user"

	// ErrCodeHashMismatch indicates the server-recomputed state hash
	// disagrees with the client-supplied one.
	ErrCodeHashMismatch SyncErrorCode = "hash_mismatch"

	// ErrCodeChainDiverged indicates the overlay's previous_state_hash is
	// not the tenant's current head: the client forked.
	ErrCodeChainDiverged SyncErrorCode = "chain_diverged"

	// ErrCodeBootstrapRequired indicates a replay anchor is missing or
	// unknown; the client must perform a full pull first.
	ErrCodeBootstrapRequired SyncErrorCode = "bootstrap_required"
)

// Error implements the error interface.
func (e *SyncError) Error() string {
	if e.TenantID != "" {
		return fmt.Sprintf("%s: %s (tenant=%s)", e.Code, e.Message, e.TenantID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsSyncError unwraps err to a SyncError if one is in the chain.
func AsSyncError(err error) (*SyncError, bool) {
	var se *SyncError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsChainDiverged returns true if the error is a chain fork rejection.
// Uses errors.As to handle wrapped errors.
func IsChainDiverged(err error) bool {
	se, ok := AsSyncError(err)
	return ok && se.Code == ErrCodeChainDiverged
}

// IsBootstrapRequired returns true if the error is a missing-anchor
// rejection on the replay path.
func IsBootstrapRequired(err error) bool {
	se, ok := AsSyncError(err)
	return ok && se.Code == ErrCodeBootstrapRequired
}
