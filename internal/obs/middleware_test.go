package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPObsMiddlewareCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("paygate_test", nil, reg)
	handler := HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/checkout", nil)
	req = req.WithContext(WithRoutePattern(req.Context(), "/v1/checkout"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}
	count := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/v1/checkout", "418"))
	if count != 1 {
		t.Fatalf("expected 1 counted request, got %v", count)
	}
}

func TestStatusRecorderTracksBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := NewStatusRecorder(rec)
	if sr.Status() != http.StatusOK {
		t.Fatalf("expected default 200 status, got %d", sr.Status())
	}
	sr.WriteHeader(http.StatusAccepted)
	if _, err := sr.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if sr.Status() != http.StatusAccepted || sr.BytesWritten() != 5 {
		t.Fatalf("unexpected recorder state: status=%d bytes=%d", sr.Status(), sr.BytesWritten())
	}
}

func TestRequestRouteResolution(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/orders/PROV-1", nil)
	if got := requestRoute(req, "/fallback"); got != "/fallback" {
		t.Fatalf("expected fallback route, got %q", got)
	}
	req = req.WithContext(WithRoutePattern(req.Context(), "/v1/orders/{providerOrderID}"))
	if got := requestRoute(req, "/fallback"); got != "/v1/orders/{providerOrderID}" {
		t.Fatalf("expected stored pattern, got %q", got)
	}
}

func TestQueryNameFromSqlcHeader(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"-- name: InsertOrder :exec\nINSERT INTO orders ...", "InsertOrder"},
		{"-- name: DueSubscriptions :many\nSELECT ...", "DueSubscriptions"},
		{"SELECT 1", "SELECT"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := queryName(tc.sql); got != tc.want {
			t.Fatalf("queryName(%q) = %q, want %q", tc.sql, got, tc.want)
		}
	}
}

func TestParseBucketsCSV(t *testing.T) {
	got := ParseBucketsCSV("5, 10, junk, -1, 25")
	want := []float64{5, 10, 25}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
