// Package chain defines the per-tenant hash chain: the change-log entry and
// overlay wire types plus the two-stage content/state hash recipe that links
// entries together.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenesisHash is the previous_state_hash of a tenant's first chain entry:
// 64 ASCII zeros.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// ContentHash hashes the overlay's identifying tuple. The input is the plain
// UTF-8 concatenation of the fields in this exact order with no separators:
//
//	id + tenant_id + user_id + created_at + object_name + object_id + changes
//
// where changes is the canonical JSON of the patch. Returns lowercase hex.
func ContentHash(id, tenantID, userID, createdAt, objectName, objectID string, canonicalChanges []byte) string {
	h := sha256.New()
	h.Write([]byte(id))
	h.Write([]byte(tenantID))
	h.Write([]byte(userID))
	h.Write([]byte(createdAt))
	h.Write([]byte(objectName))
	h.Write([]byte(objectID))
	h.Write(canonicalChanges)
	return hex.EncodeToString(h.Sum(nil))
}

// StateHash links an entry into the chain: SHA-256 over the content hash's
// hex form concatenated with the previous state hash, both 64-char lowercase
// hex strings. Returns lowercase hex.
func StateHash(contentHash, previousStateHash string) string {
	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte(previousStateHash))
	return hex.EncodeToString(h.Sum(nil))
}

// IsHexDigest reports whether s is a 64-character lowercase hex digest, the
// only shape state hashes take on the wire.
func IsHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
