// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	TokensScanned    *prometheus.CounterVec
	ScanDuration     *prometheus.HistogramVec
	SwapsNormalized  prometheus.Counter
	SwapsDropped     prometheus.Counter
	SnipersDetected  prometheus.Counter
	EngineDuration   prometheus.Histogram
	ReportsGenerated prometheus.Counter

	// API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on reg.
// A nil registerer uses the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "genesis_sniper_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokensScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "tokens_total",
			Help:      "Total number of token scans by status",
		}, []string{"status"}),
		ScanDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan duration in seconds by scope",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"scope"}),
		SwapsNormalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "swaps_normalized_total",
			Help:      "Total number of raw swap records mapped to events",
		}),
		SwapsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "swaps_dropped_total",
			Help:      "Total number of raw swap records without a buy/sell direction",
		}),
		SnipersDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "snipers_detected_total",
			Help:      "Total number of sniper wallets detected",
		}),
		EngineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Engine run duration per token in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of result cache lookups by outcome",
		}, []string{"outcome"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulScan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last scan that finished without errors",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordTokenScan records one token scan.
func RecordTokenScan(status string, durationSeconds float64) {
	DefaultMetrics.TokensScanned.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.WithLabelValues("token").Observe(durationSeconds)
}

// RecordScanRun records a full catalog scan.
func RecordScanRun(durationSeconds float64, failed int) {
	DefaultMetrics.ScanDuration.WithLabelValues("catalog").Observe(durationSeconds)
	if failed == 0 {
		DefaultMetrics.LastSuccessfulScan.Set(float64(time.Now().Unix()))
	}
}

// RecordNormalization records how many raw records mapped to events.
func RecordNormalization(raw, normalized int) {
	DefaultMetrics.SwapsNormalized.Add(float64(normalized))
	if dropped := raw - normalized; dropped > 0 {
		DefaultMetrics.SwapsDropped.Add(float64(dropped))
	}
}

// RecordEngineRun records an engine run and the snipers it found.
func RecordEngineRun(durationSeconds float64, snipers int) {
	DefaultMetrics.EngineDuration.Observe(durationSeconds)
	DefaultMetrics.SnipersDetected.Add(float64(snipers))
}

// RecordReportGenerated increments the reports counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordHTTPRequest records an API request.
func RecordHTTPRequest(route string, code int, durationSeconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordCacheLookup records a cache hit, miss or error.
func RecordCacheLookup(outcome string) {
	DefaultMetrics.CacheLookups.WithLabelValues(outcome).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
