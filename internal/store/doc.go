// Package store provides SQLite-backed durable storage for the sync
// backend: the per-kind entity tables, the tenants table, and the
// per-tenant hash-chained change log.
//
// The store implements:
//   - Bundle reads: tenant-scoped incremental projection of all 16 entity
//     kinds (ReadBundle)
//   - Overlay ingest: atomic batch append to the change log plus
//     merge-patch upsert of domain state (IngestBatch)
//   - Chain operations: head lookup, anchor resolution, delta replay
//     (ChainHead, ResolveAnchor, ReplayChain)
//   - Integrity audit: full-chain recomputation per tenant (VerifyChain)
//   - Seeding: idempotent bulk load of demo fixtures (Seed)
//
// # Critical Patterns
//
// Single guarded connection
//   - One pooled connection (SetMaxOpenConns(1)) behind a process-wide
//     mutex
//   - Head lookup + append are atomic with respect to concurrent writers,
//     which the chain discipline requires
//   - Bundle reads observe a single snapshot for the same reason
//
// Append-only change log
//   - change_log rows are never updated or deleted
//   - sequence_id is assigned by AUTOINCREMENT and strictly increases
//   - UNIQUE(tenant_id, state_hash) rejects duplicate chain links
//
// Deterministic query results
//   - Entity projections order by updated_at ASC, id COLLATE BINARY ASC
//   - Chain reads order by sequence_id ASC
//   - Identical stores produce byte-identical responses
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Chain hashes are computed via internal/chain over the canonical JSON form
// produced by internal/canonical; the canonical string is both the hash
// input and the persisted change_data.
package store
