package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kestrelops/fieldsync/internal/chain"
	"github.com/kestrelops/fieldsync/internal/metrics"
	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// bundleResponse is the GET /sync body: request metadata plus one list per
// entity kind.
type bundleResponse struct {
	Meta record.Meta    `json:"meta"`
	Data *record.Bundle `json:"data"`
}

// handleBundle serves the full bundle pull. server_time is captured once at
// request entry; the since parameter is echoed back verbatim.
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	serverTime := s.now().UTC().Truncate(time.Second).Format(time.RFC3339)

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "tenant_id is required",
		})
		return
	}

	// since compares lexicographically against Z-suffixed stored timestamps,
	// so an offset form would silently misfilter. UTC with Z only.
	since := r.URL.Query().Get("since")
	if since == "" {
		since = store.EpochSince
	} else if _, err := time.Parse(time.RFC3339, since); err != nil || !strings.HasSuffix(since, "Z") {
		writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "since must be an RFC 3339 UTC timestamp with a Z suffix",
		})
		return
	}

	bundle, err := s.store.ReadBundle(r.Context(), tenantID, since)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("bundle read failed")
		writeJSON(w, http.StatusInternalServerError, statusResponse{
			Status:  "error",
			Message: "internal server error",
		})
		return
	}

	writeJSON(w, http.StatusOK, bundleResponse{
		Meta: record.Meta{ServerTime: serverTime, Since: since},
		Data: bundle,
	})
}

// handleIngest applies a batch of client overlays. The batch is atomic: any
// rejection leaves the store untouched and reports the reason with a stable
// error code.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var overlays []chain.Overlay
	if err := json.NewDecoder(r.Body).Decode(&overlays); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "request body must be a JSON array of overlays",
		})
		return
	}

	if len(overlays) == 0 {
		writeJSON(w, http.StatusOK, statusResponse{
			Status:  "ok",
			Message: "No changes to sync.",
		})
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = s.cfg.Sync.DevDefaultUser
	}

	result, err := s.store.IngestBatch(r.Context(), userID, overlays)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	metrics.OverlaysApplied.Add(float64(result.Applied))
	metrics.OverlaysSkipped.Add(float64(result.Skipped))

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	se, ok := store.AsSyncError(err)
	if !ok {
		s.logger.Error().Err(err).Msg("ingest failed")
		writeJSON(w, http.StatusInternalServerError, statusResponse{
			Status:  "error",
			Message: "internal server error",
		})
		return
	}

	switch se.Code {
	case store.ErrCodeChainDiverged:
		metrics.ChainForksRejected.Inc()
	case store.ErrCodeHashMismatch:
		metrics.HashMismatches.Inc()
	}

	s.logger.Warn().
		Str("code", string(se.Code)).
		Str("tenant_id", se.TenantID).
		Msg("ingest rejected")

	writeJSON(w, syncErrorStatus(se.Code), statusResponse{
		Status:  "error",
		Error:   string(se.Code),
		Message: se.Message,
		Details: se.Details,
	})
}

// handleReplay serves the change-log delta after a client-supplied anchor.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		writeJSON(w, http.StatusBadRequest, replayError{
			Error:   string(store.ErrCodeInvalidTenant),
			Message: "tenant_id is required",
		})
		return
	}

	sinceHash := r.URL.Query().Get("since_hash")

	entries, err := s.store.ReplayChain(r.Context(), tenantID, sinceHash)
	if err != nil {
		if se, ok := store.AsSyncError(err); ok {
			writeJSON(w, syncErrorStatus(se.Code), replayError{
				Error:   string(se.Code),
				Message: se.Message,
			})
			return
		}
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("replay failed")
		writeJSON(w, http.StatusInternalServerError, replayError{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	metrics.ChainEntriesReplayed.Add(float64(len(entries)))

	writeJSON(w, http.StatusOK, entries)
}
