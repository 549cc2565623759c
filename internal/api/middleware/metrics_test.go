package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"moviebrowser/pkg/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := MetricsMiddleware(mux)

	counter := metrics.HttpRequestsTotal.WithLabelValues("GET", "/api/movies", "418")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/api/movies?genre=horror&author=kubrick", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter),
		"query strings collapse into the route's series")
}

func TestRouteLabel(t *testing.T) {
	unmatched := httptest.NewRequest(http.MethodGet, "/nowhere?x=1", nil)
	assert.Equal(t, "/nowhere", routeLabel(unmatched))

	matched := httptest.NewRequest(http.MethodGet, "/api/rentals/date?movie_id=7", nil)
	matched.Pattern = "GET /api/rentals/date"
	assert.Equal(t, "/api/rentals/date", routeLabel(matched))

	bare := httptest.NewRequest(http.MethodGet, "/health", nil)
	bare.Pattern = "/health"
	assert.Equal(t, "/health", routeLabel(bare))
}
