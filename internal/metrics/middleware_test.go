package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	r.Post("/api/v1/recommendations", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{http.MethodGet, "/api/v1/search?q=mug", "/api/v1/search", "200"},
		{http.MethodPost, "/api/v1/recommendations", "/api/v1/recommendations", "429"},
		{http.MethodGet, "/api/v1/products/p-1", "/api/v1/products/{id}", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.route, func(t *testing.T) {
			counter := httpRequestsTotal.WithLabelValues(tt.method, tt.route, tt.status)
			before := testutil.ToFloat64(counter)

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, http.NoBody))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("requests_total delta: got %v, want 1", got)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newRouter()
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, routeUnmatched, "404")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched delta: got %v, want 1", got)
	}
}

func TestMiddleware_WithoutChiContext(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, routeUnmatched, "204")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("delta: got %v, want 1", got)
	}
}

func TestRegisterMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()

	before := testutil.ToFloat64(SearchesTotal.WithLabelValues(OutcomeEmpty, "text_only"))
	SearchesTotal.WithLabelValues(OutcomeEmpty, "text_only").Inc()
	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues(OutcomeEmpty, "text_only")) - before; got != 1 {
		t.Errorf("searches_total delta: got %v, want 1", got)
	}
}
