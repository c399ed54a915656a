package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	runDurationBuckets  = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60, 300, 900}
	bodySizeBuckets     = []float64{100, 1024, 10240, 102400, 1048576}
)

// Metrics holds all Prometheus metric instruments for the engine.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSizeBytes  *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec
	PromptsTotal     *prometheus.CounterVec

	// Quantity metrics
	ConversionsTotal   *prometheus.CounterVec
	DisplayScalesTotal *prometheus.CounterVec

	// Import run metrics
	ImportRunStartsTotal      prometheus.Counter
	ImportRunCompletionsTotal *prometheus.CounterVec
	ImportRunsActive          prometheus.Gauge
	ImportRunDuration         prometheus.Histogram

	// Catalog metrics
	CatalogLookupsTotal *prometheus.CounterVec
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roacook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPRequestSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roacook_http_request_size_bytes",
			Help:    "HTTP request body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roacook_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// Resolutions
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_resolutions_total",
			Help: "Total number of duplicate resolutions by entity kind and outcome mode.",
		}, []string{"entity", "mode"}),
		PromptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_prompts_total",
			Help: "Total number of operator prompts raised, by entity kind.",
		}, []string{"entity"}),

		// Quantities
		ConversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_conversions_total",
			Help: "Total number of unit conversions, by measure kind (advisory passes included).",
		}, []string{"kind"}),
		DisplayScalesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_display_scales_total",
			Help: "Total number of display auto-scales, by direction (up, down, none).",
		}, []string{"direction"}),

		// Import runs
		ImportRunStartsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roacook_import_run_starts_total",
			Help: "Total number of import runs started.",
		}),
		ImportRunCompletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_import_run_completions_total",
			Help: "Total number of import runs reaching a terminal status.",
		}, []string{"final_status"}),
		ImportRunsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roacook_import_runs_active",
			Help: "Number of import runs currently running or awaiting a choice.",
		}),
		ImportRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roacook_import_run_duration_seconds",
			Help:    "Import run duration from start to terminal status in seconds.",
			Buckets: runDurationBuckets,
		}),

		// Catalog
		CatalogLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roacook_catalog_lookups_total",
			Help: "Total number of catalog lookups, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSizeBytes,
		m.HTTPResponseSizeBytes,
		// Resolutions
		m.ResolutionsTotal,
		m.PromptsTotal,
		// Quantities
		m.ConversionsTotal,
		m.DisplayScalesTotal,
		// Import runs
		m.ImportRunStartsTotal,
		m.ImportRunCompletionsTotal,
		m.ImportRunsActive,
		m.ImportRunDuration,
		// Catalog
		m.CatalogLookupsTotal,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, reqSize, respSize int) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPRequestSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(reqSize))
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordResolution records a duplicate-resolution outcome.
func (m *Metrics) RecordResolution(entity, mode string) {
	m.ResolutionsTotal.WithLabelValues(entity, mode).Inc()
}

// RecordPrompt records an operator prompt being raised.
func (m *Metrics) RecordPrompt(entity string) {
	m.PromptsTotal.WithLabelValues(entity).Inc()
}

// RecordConversion records a unit conversion by measure kind.
func (m *Metrics) RecordConversion(kind string) {
	m.ConversionsTotal.WithLabelValues(kind).Inc()
}

// RecordDisplayScale records an auto-scale by direction.
func (m *Metrics) RecordDisplayScale(direction string) {
	m.DisplayScalesTotal.WithLabelValues(direction).Inc()
}

// RecordImportRunStart records an import run start.
func (m *Metrics) RecordImportRunStart() {
	m.ImportRunStartsTotal.Inc()
	m.ImportRunsActive.Inc()
}

// RecordImportRunCompletion records a run reaching a terminal status.
func (m *Metrics) RecordImportRunCompletion(finalStatus string, duration time.Duration) {
	m.ImportRunCompletionsTotal.WithLabelValues(finalStatus).Inc()
	m.ImportRunsActive.Dec()
	m.ImportRunDuration.Observe(duration.Seconds())
}

// RecordCatalogLookup records a catalog lookup outcome.
func (m *Metrics) RecordCatalogLookup(operation, outcome string) {
	m.CatalogLookupsTotal.WithLabelValues(operation, outcome).Inc()
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pathPattern := routePattern(r)
		reqSize := 0
		if r.ContentLength > 0 {
			reqSize = int(r.ContentLength)
		}

		m.RecordHTTPRequest(r.Method, pathPattern, sw.status, duration, reqSize, sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
