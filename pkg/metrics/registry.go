// Package metrics exposes the run's task counts, batch durations, and
// copy/skip/fail outcomes as Prometheus collectors. Purely observational:
// nothing in the scheduler reads these back.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry wraps a Prometheus registry with the scheduler's metrics,
// scoped to what the executor actually emits.
type Registry struct {
	registry *prometheus.Registry

	tasksTotal      *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	copyDuration    prometheus.Histogram
	copyOutcomes    *prometheus.CounterVec
	batchesInFlight prometheus.Gauge
}

// NewRegistry builds a Registry with every collector registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tugboat_sync_tasks_total",
			Help: "Total number of sync tasks expanded from the configuration.",
		}, []string{"stage_id"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tugboat_batch_duration_seconds",
			Help:    "Wall-clock duration of one executor batch.",
			Buckets: prometheus.DefBuckets,
		}),
		copyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tugboat_copy_task_duration_seconds",
			Help:    "Wall-clock duration of one copyTask invocation.",
			Buckets: prometheus.DefBuckets,
		}),
		copyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tugboat_copy_task_outcomes_total",
			Help: "Count of copyTask outcomes by result.",
		}, []string{"outcome"}),
		batchesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tugboat_batches_in_flight",
			Help: "1 while an executor batch is running, 0 otherwise.",
		}),
	}

	reg.MustRegister(r.tasksTotal, r.batchDuration, r.copyDuration, r.copyOutcomes, r.batchesInFlight)
	return r
}

// Gatherer exposes the underlying Prometheus registry for the HTTP handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// ObserveTasksExpanded records task_count tasks expanded for stageID.
func (r *Registry) ObserveTasksExpanded(stageID string, count int) {
	r.tasksTotal.WithLabelValues(stageID).Add(float64(count))
}

// ObserveBatch times one executor batch via the returned stop function.
func (r *Registry) ObserveBatch() func() {
	r.batchesInFlight.Set(1)
	start := time.Now()
	return func() {
		r.batchDuration.Observe(time.Since(start).Seconds())
		r.batchesInFlight.Set(0)
	}
}

// ObserveCopyTask records one copyTask's duration and outcome ("ok",
// "skipped", or "failed").
func (r *Registry) ObserveCopyTask(d time.Duration, outcome string) {
	r.copyDuration.Observe(d.Seconds())
	r.copyOutcomes.WithLabelValues(outcome).Inc()
}
