package api

import (
	"net/http"
)

// healthResponse reports process liveness plus the result of a database
// probe. The endpoint never fails the request; a broken database shows up
// in the body, not the status code.
type healthResponse struct {
	Status          string `json:"status"`
	SQLiteConnected bool   `json:"sqlite_connected"`
	Error           string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:          "ok",
		SQLiteConnected: true,
	}

	if err := s.store.Ping(r.Context()); err != nil {
		response.SQLiteConnected = false
		response.Error = err.Error()
		s.logger.Warn().Err(err).Msg("health probe failed")
	}

	writeJSON(w, http.StatusOK, response)
}
