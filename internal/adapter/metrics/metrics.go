package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

var (
	// metricsOnce ensures metrics are registered only once
	metricsOnce sync.Once

	cyclesTotal            *prometheus.CounterVec
	cycleDuration          prometheus.Histogram
	certificatesFetched    prometheus.Counter
	observablesTotal       *prometheus.CounterVec
	graphqlErrorsTotal     *prometheus.CounterVec
	lastSuccessfulCycleSec prometheus.Gauge
)

// InitMetrics registers all Prometheus metrics of the connector.
// Record* helpers are no-ops until it has been called.
func InitMetrics() {
	metricsOnce.Do(func() {
		cyclesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loboguara_cycles_total",
				Help: "Total number of polling cycles by status",
			},
			[]string{"status"},
		)

		cycleDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loboguara_cycle_duration_seconds",
				Help:    "Duration of polling cycles in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		)

		certificatesFetched = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loboguara_certificates_fetched_total",
				Help: "Total number of certificates returned by the monitoring service",
			},
		)

		observablesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loboguara_observables_total",
				Help: "Total number of observable creations by status",
			},
			[]string{"status"},
		)

		graphqlErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loboguara_graphql_errors_total",
				Help: "Total number of GraphQL responses carrying errors by operation",
			},
			[]string{"operation"},
		)

		lastSuccessfulCycleSec = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "loboguara_last_successful_cycle_timestamp_seconds",
				Help: "Unix time of the last polling cycle that completed without error",
			},
		)
	})
}

// RecordGraphQLError counts a GraphQL response with a populated errors array.
func RecordGraphQLError(operation string) {
	if graphqlErrorsTotal != nil {
		graphqlErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// Recorder feeds cycle results into the registered metrics.
type Recorder struct{}

func NewRecorder() *Recorder {
	InitMetrics()
	return &Recorder{}
}

func (r *Recorder) RecordCycle(result domain.CycleResult) {
	status := "success"
	if !result.OK() {
		status = "failure"
	}
	if cyclesTotal != nil {
		cyclesTotal.WithLabelValues(status).Inc()
	}
	if cycleDuration != nil {
		cycleDuration.Observe(result.Duration.Seconds())
	}
	if certificatesFetched != nil {
		certificatesFetched.Add(float64(result.Fetched))
	}
	if observablesTotal != nil {
		observablesTotal.WithLabelValues("created").Add(float64(result.Created))
		observablesTotal.WithLabelValues("rejected").Add(float64(result.Rejected))
	}
	if result.OK() && lastSuccessfulCycleSec != nil {
		lastSuccessfulCycleSec.Set(float64(result.StartedAt.Add(result.Duration).Unix()))
	}
}
