package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "friendfinder"

// Friend request outcomes recorded by RecordFriendRequest.
const (
	OutcomeSent     = "sent"
	OutcomeAccepted = "accepted"
	OutcomeDenied   = "denied"
)

// OtherRoute labels requests that matched no registered route.
const OtherRoute = "other"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	friendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "friends",
			Name:      "requests_total",
			Help:      "Friend requests by outcome.",
		},
		[]string{"outcome"},
	)

	friendshipsDissolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "friends",
			Name:      "dissolved_total",
			Help:      "Friendships dissolved.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		friendRequests,
		friendshipsDissolved,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveHTTPRequest records one completed HTTP request. route must come
// from RouteLabel so the label set stays bounded by the route table.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	method = strings.ToUpper(method)

	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFriendRequest counts a friend request transition.
func RecordFriendRequest(outcome string) {
	friendRequests.WithLabelValues(outcome).Inc()
}

// RecordFriendshipDissolved counts a removed friendship.
func RecordFriendshipDissolved() {
	friendshipsDissolved.Inc()
}

// RouteLabel turns a matched ServeMux pattern into a path label. The method
// prefix is dropped. An empty pattern or the bare "/" catch-all is OtherRoute.
func RouteLabel(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == "/" {
		return OtherRoute
	}
	return pattern
}
