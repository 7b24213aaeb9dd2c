package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type observedRequest struct {
	method  string
	status  int
	seconds float64
}

type requestRecorder struct {
	got []observedRequest
}

func (rr *requestRecorder) observe(method string, status int, seconds float64) {
	rr.got = append(rr.got, observedRequest{method, status, seconds})
}

// TestTimingMiddleware_Observes verifies that a request sample is reported.
func TestTimingMiddleware_Observes(t *testing.T) {
	rec := &requestRecorder{}
	handler := Timing(0, rec.observe)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/calendar/items", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(rec.got) != 1 {
		t.Fatalf("observed %d requests, want 1", len(rec.got))
	}
	if rec.got[0].method != "GET" || rec.got[0].status != http.StatusOK || rec.got[0].seconds < 0 {
		t.Errorf("unexpected sample %+v", rec.got[0])
	}
}

// TestTimingMiddleware_SkipsStaticAndMetrics verifies excluded paths are not observed.
func TestTimingMiddleware_SkipsStaticAndMetrics(t *testing.T) {
	rec := &requestRecorder{}
	handler := Timing(0, rec.observe)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/static/style.css", "/metrics"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rr.Code)
		}
	}
	if len(rec.got) != 0 {
		t.Errorf("observed %d requests, want 0", len(rec.got))
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the status code is captured.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	rec := &requestRecorder{}
	handler := Timing(time.Second, rec.observe)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if len(rec.got) != 1 || rec.got[0].status != http.StatusNotFound {
		t.Errorf("expected a 404 sample, got %+v", rec.got)
	}
}

// TestTimingMiddleware_NilObserver verifies middleware works without an observer.
func TestTimingMiddleware_NilObserver(t *testing.T) {
	handler := Timing(0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/calendar", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
