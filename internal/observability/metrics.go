package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	PipelineRuns     *prometheus.CounterVec
	ClassifyRetries  prometheus.Counter
	StageLatency     *prometheus.HistogramVec
	CapabilityErrors *prometheus.CounterVec
	StoreErrors      *prometheus.CounterVec
	ActiveWSStreams  prometheus.Gauge
	SessionEvents    *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		PipelineRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Completed pipeline runs by resolved intent and generation method.",
		}, []string{"intent", "method"}),
		ClassifyRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classify_retries_total",
			Help:      "Low-confidence classification retries.",
		}),
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_ms",
			Help:      "Pipeline stage latency in milliseconds.",
			Buckets:   []float64{1, 5, 20, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"stage"}),
		CapabilityErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_errors_total",
			Help:      "External capability failures that triggered a fallback, by stage.",
		}, []string{"stage"}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Durable store failures by operation.",
		}, []string{"op"}),
		ActiveWSStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_ws_streams",
			Help:      "Open websocket trace streams.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
	}
}

func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	m.StageLatency.WithLabelValues(stage).Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
