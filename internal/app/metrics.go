package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knapsack_tasks_started_total",
			Help: "Total number of tasks picked up by the optimizer",
		},
	)

	tasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapsack_tasks_completed_total",
			Help: "Total number of tasks solved and recorded",
		},
		[]string{"strategy"},
	)

	tasksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapsack_tasks_failed_total",
			Help: "Total number of tasks the optimizer gave up on",
		},
		[]string{"stage"},
	)

	solveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knapsack_solve_duration_seconds",
			Help:    "Duration of a single solve in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"strategy"},
	)

	lifecycleState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "knapsack_service_state",
			Help: "Current lifecycle state (0=Stopped 1=Starting 2=Running 3=Stopping 4=Crashed)",
		},
	)
)

// MetricsEmitter records optimizer and lifecycle events as Prometheus metrics.
type MetricsEmitter struct{}

// OnTaskStarted implements TaskEventEmitter.
func (MetricsEmitter) OnTaskStarted(uuid.UUID) {
	tasksStarted.Inc()
}

// OnTaskCompleted implements TaskEventEmitter.
func (MetricsEmitter) OnTaskCompleted(_ uuid.UUID, strategy string, _ int, duration time.Duration) {
	tasksCompleted.WithLabelValues(strategy).Inc()
	solveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// OnTaskFailed implements TaskEventEmitter.
func (MetricsEmitter) OnTaskFailed(_ uuid.UUID, stage string, _ error) {
	tasksFailed.WithLabelValues(stage).Inc()
}

// OnStateChange implements EventEmitter.
func (MetricsEmitter) OnStateChange(_, current State, _ string) {
	lifecycleState.Set(float64(current))
}
