package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check pipeline metrics.
var (
	checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_checks_total",
			Help: "Plagiarism checks by score source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	pollsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plagiarism_scan_polls_total",
		Help: "Scan status requests issued while waiting for scans.",
	})

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plagiarism_upstream_request_duration_seconds",
			Help:    "Scoring API latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_check_messages_total",
			Help: "Check request messages by handling result.",
		},
		[]string{"result"},
	)
)

// HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

var initOnce sync.Once

// Init registers every collector in the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			checksTotal, pollsTotal, upstreamDuration, messagesTotal,
			httpInFlight, httpRequestsTotal, httpRequestDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveCheck(source, outcome string) {
	checksTotal.WithLabelValues(source, outcome).Inc()
}

func IncPoll() {
	pollsTotal.Inc()
}

// ObserveUpstream records one scoring API call. A zero status means the
// request never got a response.
func ObserveUpstream(endpoint string, status int, d time.Duration) {
	upstreamDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveMessage records how a check request message was settled: ack,
// nack or dlq.
func ObserveMessage(result string) {
	messagesTotal.WithLabelValues(result).Inc()
}

// Instrument measures every request passing through next. route labels
// requests so ids in paths do not explode the label space.
func Instrument(route func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		name := route(r)
		httpRequestDuration.WithLabelValues(r.Method, name, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, name, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
