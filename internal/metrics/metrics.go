// Package metrics provides Prometheus metrics for the signage backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signage_http_requests_total",
		Help: "Total HTTP requests, by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes handler latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signage_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// ActionsTotal counts data actions by name and outcome.
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signage_actions_total",
		Help: "Total data actions dispatched, by action and result.",
	}, []string{"action", "result"})

	// ExposureEventsTotal counts accepted exposure increments.
	ExposureEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signage_exposure_events_total",
		Help: "Total exposure increments recorded.",
	})

	// AnalyticsSnapshotsTotal counts snapshot attempts by result.
	AnalyticsSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signage_analytics_snapshots_total",
		Help: "Total analytics snapshots, by result (recorded/disabled/failed).",
	}, []string{"result"})

	// BackgroundTaskFailuresTotal counts best-effort tasks that failed.
	BackgroundTaskFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signage_background_task_failures_total",
		Help: "Total failed best-effort background tasks, by task.",
	}, []string{"task"})

	// DisplayClients tracks connected display websockets.
	DisplayClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signage_display_clients",
		Help: "Current number of connected display websocket clients.",
	})

	// LoginRejectedTotal counts failed or throttled logins.
	LoginRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signage_login_rejected_total",
		Help: "Total rejected logins, by reason.",
	}, []string{"reason"})
)

func RecordAction(action, result string) {
	ActionsTotal.WithLabelValues(action, result).Inc()
}

func RecordSnapshot(result string) {
	AnalyticsSnapshotsTotal.WithLabelValues(result).Inc()
}

func RecordTaskFailure(task string) {
	BackgroundTaskFailuresTotal.WithLabelValues(task).Inc()
}
