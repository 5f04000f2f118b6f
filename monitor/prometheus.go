package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "finlogs_build_info",
		Help: "Build information of the running finlogs process.",
	}, []string{"version", "build_time", "go_version"})

	startTimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "finlogs_start_time_seconds",
		Help: "Unix time the process started.",
	})

	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finlogs_log_fetch_total",
		Help: "Log endpoint fetches grouped by pagination mode and result.",
	}, []string{"mode", "result"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finlogs_log_fetch_duration_seconds",
		Help:    "Latency of log endpoint fetches.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"mode"})

	fetchRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finlogs_log_fetch_records_total",
		Help: "Records received from the log endpoint.",
	}, []string{"mode"})

	staleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finlogs_stale_responses_total",
		Help: "Fetch responses dropped because a newer request had already been applied.",
	})

	exportTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finlogs_export_total",
		Help: "Export runs grouped by result.",
	}, []string{"result"})

	exportRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "finlogs_export_records",
		Help:    "Records written per successful export.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 9),
	})

	exportBatchProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "finlogs_export_batch_progress",
		Help: "Current batch and total batches of the running export.",
	}, []string{"kind"})

	pricingLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finlogs_pricing_load_total",
		Help: "Pricing payload loads grouped by result.",
	}, []string{"result"})

	activeViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "finlogs_active_views",
		Help: "View controllers currently held for browser sessions.",
	})

	apiRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finlogs_api_request_total",
		Help: "HTTP API requests grouped by route, method and status.",
	}, []string{"path", "method", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finlogs_api_request_duration_seconds",
		Help:    "Latency of HTTP API requests.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"path", "method"})
)

// InitPrometheusMonitoring publishes build and start time gauges.
func InitPrometheusMonitoring(version, buildTime, goVersion string, startTime time.Time) error {
	buildInfo.WithLabelValues(version, buildTime, goVersion).Set(1)
	startTimeSeconds.Set(float64(startTime.Unix()))
	return nil
}

// RecordFetch observes one log endpoint fetch.
func RecordFetch(mode string, success bool, records int, elapsed time.Duration) {
	fetchTotal.WithLabelValues(mode, resultLabel(success)).Inc()
	fetchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if records > 0 {
		fetchRecords.WithLabelValues(mode).Add(float64(records))
	}
}

// RecordStaleResponse counts a response dropped by the sequence guard.
func RecordStaleResponse() {
	staleResponses.Inc()
}

// RecordExport observes a finished export. result is "success", "no_data", "declined" or "error".
func RecordExport(result string, records int) {
	exportTotal.WithLabelValues(result).Inc()
	if result == "success" {
		exportRecords.Observe(float64(records))
	}
}

// SetExportProgress publishes the batch currently being fetched.
func SetExportProgress(batch, total int) {
	exportBatchProgress.WithLabelValues("current").Set(float64(batch))
	exportBatchProgress.WithLabelValues("total").Set(float64(total))
}

// RecordPricingLoad observes one pricing endpoint call.
func RecordPricingLoad(success bool) {
	pricingLoads.WithLabelValues(resultLabel(success)).Inc()
}

// SetActiveViews publishes the number of live view controllers.
func SetActiveViews(n int) {
	activeViews.Set(float64(n))
}

// RecordAPIRequest observes one HTTP API request.
func RecordAPIRequest(path, method string, status int, elapsed time.Duration) {
	apiRequestTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
