package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/friendfinder/backend/internal/metrics"
)

const metricsPath = "/metrics"

type routeKey struct{}

// matchedRoute carries the ServeMux pattern back out to Apply. Handlers in
// between may replace the request, so the pointer travels in the context.
type matchedRoute struct {
	pattern string
}

// Metrics records request counts, latency and in-flight requests, labelled
// by the matched route rather than the raw path.
type Metrics struct{}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == metricsPath {
			next.ServeHTTP(w, r)
			return
		}

		done := metrics.TrackInFlight()
		defer done()

		route := &matchedRoute{}
		r = r.WithContext(context.WithValue(r.Context(), routeKey{}, route))

		start := time.Now()
		recorder := newResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		metrics.ObserveHTTPRequest(r.Method, metrics.RouteLabel(route.pattern), recorder.statusCode, time.Since(start))
	})
}

// Route wraps the ServeMux and reports the pattern it matched to Apply.
func (m *Metrics) Route(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if route, ok := r.Context().Value(routeKey{}).(*matchedRoute); ok {
			route.pattern = r.Pattern
		}
	})
}
