package canonical

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestCanonicalizeGoldenCorpus pins the canonical form of representative
// change documents. Clients hash this exact byte sequence, so any drift
// here is a wire-compatibility break, not a refactor.
func TestCanonicalizeGoldenCorpus(t *testing.T) {
	corpus := []string{
		`{"job_number": "J-1001", "status_note": "on site"}`,
		`{"title": "Fix HVAC", "job_address": {"street": "12 Main St", "city": "Truckee"}, "tags": ["hvac", "priority"]}`,
		`{"total_amount": 1250.50, "quantity": 3, "discount": 0.075, "version": 1e2}`,
		`{"note": "line1\nline2\t\"quoted\"", "path": "C:\\temp", "unicode": "café ✓"}`,
		`{"zebra": null, "alpha": true, "empty_list": [], "empty_obj": {}}`,
		`{"scheduled_at": null, "status_note": "rescheduled"}`,
		`{"external_ref": 9007199254740993}`,
	}

	var out []byte
	for _, doc := range corpus {
		canon, err := Canonicalize([]byte(doc))
		require.NoError(t, err, "input %s", doc)
		out = append(out, canon...)
		out = append(out, '\n')
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "canonical_corpus", out)
}
