package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriageActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_triage_actions_total",
			Help: "Triage actions applied, by action",
		},
		[]string{"action"},
	)

	BoardProjectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_triage_board_projections_total",
			Help: "Boards projected for rendering",
		},
	)

	SnoozesWokenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_triage_snoozes_woken_total",
			Help: "Snoozed emails returned to the board after their deadline",
		},
	)

	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_triage_model_loads_total",
			Help: "Dashboard model load attempts, by result",
		},
		[]string{"result"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_triage_store_errors_total",
			Help: "Key-value store failures, by operation",
		},
		[]string{"op"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inbox_triage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inbox_triage_sse_clients",
			Help: "Currently connected event stream clients",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementTriageAction(action string) {
	TriageActionsTotal.WithLabelValues(action).Inc()
}

func IncrementModelLoad(result string) {
	ModelLoadsTotal.WithLabelValues(result).Inc()
}

func IncrementStoreError(op string) {
	StoreErrorsTotal.WithLabelValues(op).Inc()
}
