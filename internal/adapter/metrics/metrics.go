// Package metrics exposes view tracking activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaign-earnings/internal/core/domain"
	"campaign-earnings/internal/core/port"
)

// Tracking implements port.TrackingObserver.
type Tracking struct {
	links        *prometheus.CounterVec
	batches      *prometheus.CounterVec
	duration     prometheus.Histogram
	applications *prometheus.CounterVec
}

// NewTracking creates the collectors and registers them on reg.
func NewTracking(reg prometheus.Registerer) *Tracking {
	t := &Tracking{
		links: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_tracking_link_refresh_total",
				Help: "Link refreshes by platform and outcome.",
			},
			[]string{"platform", "outcome"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_tracking_batch_runs_total",
				Help: "Batch runs by result.",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "view_tracking_batch_duration_seconds",
				Help:    "Duration of batch runs.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),
		applications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_tracking_batch_applications_total",
				Help: "Applications visited by batch runs, by result.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(t.links, t.batches, t.duration, t.applications)
	return t
}

func (t *Tracking) LinkRefreshed(platform domain.Platform, outcome domain.RefreshOutcome) {
	t.links.WithLabelValues(string(platform), string(outcome)).Inc()
}

func (t *Tracking) BatchFinished(elapsed time.Duration, summary port.BatchSummary, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	t.batches.WithLabelValues(result).Inc()
	t.duration.Observe(elapsed.Seconds())
	t.applications.WithLabelValues("updated").Add(float64(summary.Updated))
	t.applications.WithLabelValues("failed").Add(float64(summary.Failed))
	t.applications.WithLabelValues("unchanged").Add(float64(max(summary.Applications-summary.Updated-summary.Failed, 0)))
}
