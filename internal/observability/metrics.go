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
	QueueDepth      prometheus.Gauge
	ActiveDialogs   prometheus.Gauge
	WorkItems       *prometheus.CounterVec
	DialogEvents    *prometheus.CounterVec
	WorkItemLatency prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of work items waiting for the worker.",
		}),
		ActiveDialogs: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_dialogs",
			Help:      "Number of in-progress conversational dialogues.",
		}),
		WorkItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_items_total",
			Help:      "Work items processed by action and outcome.",
		}, []string{"action", "outcome"}),
		DialogEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_events_total",
			Help:      "Dialogue lifecycle events by type.",
		}, []string{"event"}),
		WorkItemLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "work_item_latency_ms",
			Help:      "Work item execution latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

func (m *Metrics) ObserveWorkItem(action, outcome string) {
	if m == nil {
		return
	}
	m.WorkItems.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) ObserveWorkItemLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.WorkItemLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
