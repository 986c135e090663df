package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	llmCalls       *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	llmTokens      *prometheus.CounterVec
	emailsSent     *prometheus.CounterVec
	recipients     prometheus.Gauge
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastRunSuccess prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		llmCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyquote_llm_calls_total",
				Help: "Total number of completion provider calls",
			},
			[]string{"model", "status"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dailyquote_llm_latency_seconds",
				Help:    "Completion provider call latency in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 60, 120},
			},
			[]string{"model"},
		),
		llmTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyquote_llm_tokens_total",
				Help: "Total number of completion tokens used",
			},
			[]string{"model", "type"},
		),
		emailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyquote_emails_total",
				Help: "Total number of email submissions",
			},
			[]string{"status"},
		),
		recipients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dailyquote_email_recipients",
				Help: "Number of recipients on the last submitted email",
			},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyquote_runs_total",
				Help: "Total number of daily runs by outcome",
			},
			[]string{"status"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dailyquote_run_duration_seconds",
				Help:    "Daily run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		lastRunSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dailyquote_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
		),
	}
}

// ObserveLLMCall counts a completion call and records its latency
func (c *Collector) ObserveLLMCall(model, status string, duration time.Duration) {
	c.llmCalls.WithLabelValues(model, status).Inc()
	c.llmLatency.WithLabelValues(model).Observe(duration.Seconds())
}

// AddLLMTokens increments the count of completion tokens used
func (c *Collector) AddLLMTokens(model string, input, output int64) {
	c.llmTokens.WithLabelValues(model, "input").Add(float64(input))
	c.llmTokens.WithLabelValues(model, "output").Add(float64(output))
}

// RecordEmailSent records one email submission
func (c *Collector) RecordEmailSent(status string, recipients int) {
	c.emailsSent.WithLabelValues(status).Inc()
	c.recipients.Set(float64(recipients))
}

// RecordRun records the outcome of a daily run
func (c *Collector) RecordRun(status string, duration time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
	if status == "success" {
		c.lastRunSuccess.SetToCurrentTime()
	}
}
