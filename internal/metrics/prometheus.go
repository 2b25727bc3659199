package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the Prometheus metrics of the upload tool
type Metrics struct {
	registry *prometheus.Registry

	UploadResults      *prometheus.CounterVec
	UploadDuration     prometheus.Histogram
	UploadFileSize     prometheus.Histogram
	InFlightRejections prometheus.Counter
	CredentialChecks   *prometheus.CounterVec
}

// NewMetrics creates the metrics on their own registry, so several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		UploadResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_upload_results_total",
			Help: "Total number of voice uploads by outcome kind",
		}, []string{"kind"}),
		UploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_upload_request_duration_seconds",
			Help:    "Duration of the SiliconFlow upload call",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		UploadFileSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_upload_file_size_bytes",
			Help:    "Size of uploaded reference audio files",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		}),
		InFlightRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voice_upload_inflight_rejections_total",
			Help: "Submissions refused because another upload was running",
		}),
		CredentialChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_upload_credential_checks_total",
			Help: "Inline credential checks by verdict",
		}, []string{"verdict"}),
	}

	reg.MustRegister(
		m.UploadResults,
		m.UploadDuration,
		m.UploadFileSize,
		m.InFlightRejections,
		m.CredentialChecks,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordUploadResult counts one finished upload. A nil receiver is a no-op.
func (m *Metrics) RecordUploadResult(kind string) {
	if m == nil {
		return
	}
	m.UploadResults.WithLabelValues(kind).Inc()
}

// RecordUploadDuration records the duration of one remote call
func (m *Metrics) RecordUploadDuration(durationSeconds float64) {
	if m == nil {
		return
	}
	m.UploadDuration.Observe(durationSeconds)
}

// RecordFileSize records the size of an accepted audio file
func (m *Metrics) RecordFileSize(sizeBytes int64) {
	if m == nil {
		return
	}
	m.UploadFileSize.Observe(float64(sizeBytes))
}

// RecordInFlightRejection counts a refused concurrent submission
func (m *Metrics) RecordInFlightRejection() {
	if m == nil {
		return
	}
	m.InFlightRejections.Inc()
}

// RecordCredentialCheck counts one inline credential check
func (m *Metrics) RecordCredentialCheck(verdict string) {
	if m == nil {
		return
	}
	m.CredentialChecks.WithLabelValues(verdict).Inc()
}
