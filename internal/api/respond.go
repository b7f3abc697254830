package api

import (
	"encoding/json"
	"net/http"

	"github.com/kestrelops/fieldsync/internal/store"
)

// statusResponse is the envelope for GET /sync and POST /sync outcomes.
// Error, Message and Details are omitted when empty, so a success is just
// {"status":"ok"}.
type statusResponse struct {
	Status  string            `json:"status"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// replayError is the error envelope on GET /sync/v2.
type replayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// syncErrorStatus maps a protocol rejection to its HTTP status. A fork is
// the only conflict; everything else the client sent wrong is a 400.
func syncErrorStatus(code store.SyncErrorCode) int {
	switch code {
	case store.ErrCodeChainDiverged:
		return http.StatusConflict
	case store.ErrCodeInvalidTenant,
		store.ErrCodeInvalidUser,
		store.ErrCodeHashMismatch,
		store.ErrCodeBootstrapRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
