package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// refreshRuns counts refresh runs by result: "ok", "precondition", "error".
	refreshRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Total number of rank refresh runs by result.",
		},
		[]string{"result"},
	)

	// refreshTasks counts lookups by outcome: "found", "not_found", "failed".
	refreshTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_tasks_total",
			Help: "Total number of rank lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// refreshDuration records the wall-clock time of completed runs.
	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_duration_seconds",
			Help:    "Duration of rank refresh runs in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
)

func init() {
	prometheus.MustRegister(refreshRuns, refreshTasks, refreshDuration)
}
