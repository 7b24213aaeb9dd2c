package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestItemCounters tests that the helper functions move their counters.
func TestItemCounters(t *testing.T) {
	before := testutil.ToFloat64(itemsCreated.WithLabelValues("kiln"))
	ItemCreated("kiln")
	ItemCreated("kiln")
	if got := testutil.ToFloat64(itemsCreated.WithLabelValues("kiln")) - before; got != 2 {
		t.Errorf("expected +2 kiln items, got %v", got)
	}

	before = testutil.ToFloat64(itemsRejected.WithLabelValues("missing_fields"))
	ItemRejected("missing_fields")
	if got := testutil.ToFloat64(itemsRejected.WithLabelValues("missing_fields")) - before; got != 1 {
		t.Errorf("expected +1 rejection, got %v", got)
	}
}

// TestHandler_Exposition tests that collectors appear on the metrics endpoint.
func TestHandler_Exposition(t *testing.T) {
	DigestSent()
	ObserveRequest("GET", 200, 0.01)
	ObserveQuery("QueryContext", 0.001)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)

	for _, name := range []string{
		"studio_digests_sent_total",
		"studio_http_request_duration_seconds",
		"studio_db_query_duration_seconds",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in exposition", name)
		}
	}
}
