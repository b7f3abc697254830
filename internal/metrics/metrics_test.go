package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandler tests that the exposition endpoint serves registered metrics
func TestHandler(t *testing.T) {
	// Touch a few collectors so they appear in the exposition
	OverlaysApplied.Inc()
	ChainForksRejected.Inc()
	HTTPRequestsTotal.WithLabelValues("GET", "/sync", "200").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Handler() status = %d, want %d", rec.Code, http.StatusOK)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}

	for _, name := range []string{
		"fieldsync_http_requests_total",
		"fieldsync_overlays_applied_total",
		"fieldsync_chain_forks_rejected_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing metric %q", name)
		}
	}
}
