package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockHTTPMetrics struct {
	statuses  []int
	latencies []time.Duration
}

func (m *mockHTTPMetrics) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockHTTPMetrics) RecordRequestLatency(duration time.Duration) {
	m.latencies = append(m.latencies, duration)
}

func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	recorder := &mockHTTPMetrics{}
	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes/nope", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v, want [404]", recorder.statuses)
	}
	if len(recorder.latencies) != 1 {
		t.Fatalf("latencies length = %d, want 1", len(recorder.latencies))
	}
	if recorder.latencies[0] < 0 {
		t.Errorf("latency = %v, want >= 0", recorder.latencies[0])
	}
}

func TestMetricsMiddleware_DefaultsTo200WithoutExplicitStatus(t *testing.T) {
	recorder := &mockHTTPMetrics{}
	handler := NewMetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v, want [200]", recorder.statuses)
	}
}
