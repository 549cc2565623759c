package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"moviebrowser/pkg/metrics"
)

// MetricsMiddleware records count and latency per route. The endpoint label
// comes from the matched ServeMux pattern, so requests like
// /api/rentals/date?movie_id=7 collapse into one series per route instead of
// one per query string.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.RecordHttpRequest(
			r.Method,
			routeLabel(r),
			strconv.Itoa(rec.status),
			time.Since(start),
		)
	})
}

func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		if _, path, ok := strings.Cut(r.Pattern, " "); ok {
			return path
		}
		return r.Pattern
	}
	return r.URL.Path
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
