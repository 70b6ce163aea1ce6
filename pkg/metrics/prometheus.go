package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	decisions   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	stepErrors  *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	reversions  prometheus.Counter
	breaker     prometheus.Gauge
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_decisions_total",
				Help: "Total number of decisions produced, by final action",
			},
			[]string{"symbol", "action"},
		),
		rejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_gate_rejections_total",
				Help: "Total number of signals refused by a gate",
			},
			[]string{"gate"},
		),
		stepErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_step_errors_total",
				Help: "Workflow steps that fell back to their neutral default",
			},
			[]string{"step"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		reversions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tradecore_watchdog_reversions_total",
				Help: "Principals force-reverted to manual mode by the watchdog",
			},
		),
		breaker: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradecore_circuit_breaker_active",
				Help: "1 when the account circuit breaker is tripped",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradecore_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision records a produced decision.
func (r *Recorder) RecordDecision(symbol, action string) {
	r.decisions.WithLabelValues(symbol, action).Inc()
}

// RecordGateRejection records a signal refused by the named gate.
func (r *Recorder) RecordGateRejection(gate string) {
	r.rejections.WithLabelValues(gate).Inc()
}

// RecordStepError records a workflow step replaced by its neutral default.
func (r *Recorder) RecordStepError(step string) {
	r.stepErrors.WithLabelValues(step).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordWatchdogReversion records a dead-man-switch trigger.
func (r *Recorder) RecordWatchdogReversion() {
	r.reversions.Inc()
}

// RecordBreakerState records the circuit breaker flag.
func (r *Recorder) RecordBreakerState(active bool) {
	if active {
		r.breaker.Set(1)
	} else {
		r.breaker.Set(0)
	}
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
