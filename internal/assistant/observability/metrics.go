package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus counters/gauges/histograms for one orchestrator
// process: invocation throughput, per-agent retry behavior, and admission
// control saturation.
type Metrics struct {
	// OrchestratorInvocations counts full turns by outcome
	// (completed|all_tasks_failed|error).
	OrchestratorInvocations *prometheus.CounterVec

	// OrchestratorDuration measures one full PLAN->FAN_OUT->FINAL turn.
	OrchestratorDuration *prometheus.HistogramVec

	// TaskAttempts counts task-agent attempts by agent and outcome
	// (completed|retried|failed).
	TaskAttempts *prometheus.CounterVec

	// TaskRetries counts the evaluate-retry loop's routing decisions by
	// need (search|generate).
	TaskRetries *prometheus.CounterVec

	// FanOutSaturation tracks how many of the fan-out semaphore's slots
	// are currently held.
	FanOutSaturation prometheus.Gauge

	// LLMRequestDuration measures LLM provider call latency.
	LLMRequestDuration *prometheus.HistogramVec

	// LLMRequestCounter counts LLM provider calls by provider and status.
	LLMRequestCounter *prometheus.CounterVec

	// SearchRequestDuration measures search-port call latency.
	SearchRequestDuration prometheus.Histogram

	// FeedbackRecorded counts feedback submissions by polarity.
	FeedbackRecorded *prometheus.CounterVec
}

// NewMetrics registers all metrics against reg. Pass prometheus.DefaultRegisterer
// in production; pass a fresh prometheus.NewRegistry() in tests to avoid
// duplicate-registration panics across test cases.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrchestratorInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_orchestrator_invocations_total",
				Help: "Total number of orchestrator turns by outcome",
			},
			[]string{"outcome"},
		),
		OrchestratorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_orchestrator_duration_seconds",
				Help:    "Duration of a full PLAN->FAN_OUT->FINAL turn",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"outcome"},
		),
		TaskAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_task_attempts_total",
				Help: "Total number of task-agent attempts by agent and outcome",
			},
			[]string{"agent", "outcome"},
		),
		TaskRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_task_retries_total",
				Help: "Total number of evaluate-retry routing decisions by need",
			},
			[]string{"need"},
		),
		FanOutSaturation: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_fanout_saturation",
				Help: "Number of fan-out semaphore slots currently held",
			},
		),
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_llm_request_duration_seconds",
				Help:    "Duration of LLM provider requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		LLMRequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_llm_requests_total",
				Help: "Total number of LLM provider requests by provider and status",
			},
			[]string{"provider", "status"},
		),
		SearchRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assistant_search_request_duration_seconds",
				Help:    "Duration of search-port requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 4, 8, 16},
			},
		),
		FeedbackRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_feedback_total",
				Help: "Total number of feedback submissions by polarity",
			},
			[]string{"polarity"},
		),
	}
}

// RecordOrchestratorInvocation records one completed turn.
func (m *Metrics) RecordOrchestratorInvocation(outcome string, durationSeconds float64) {
	m.OrchestratorInvocations.WithLabelValues(outcome).Inc()
	m.OrchestratorDuration.WithLabelValues(outcome).Observe(durationSeconds)
}

// RecordTaskAttempt records one task-agent attempt.
func (m *Metrics) RecordTaskAttempt(agent, outcome string) {
	m.TaskAttempts.WithLabelValues(agent, outcome).Inc()
}

// RecordTaskRetry records one evaluate-retry routing decision.
func (m *Metrics) RecordTaskRetry(need string) {
	m.TaskRetries.WithLabelValues(need).Inc()
}

// RecordLLMRequest records one LLM provider call.
func (m *Metrics) RecordLLMRequest(provider, status string, durationSeconds float64) {
	m.LLMRequestCounter.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordSearchRequest records one search-port call.
func (m *Metrics) RecordSearchRequest(durationSeconds float64) {
	m.SearchRequestDuration.Observe(durationSeconds)
}

// RecordFeedback records one feedback submission.
func (m *Metrics) RecordFeedback(polarity string) {
	m.FeedbackRecorded.WithLabelValues(polarity).Inc()
}
