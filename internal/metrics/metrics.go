// Package metrics exposes the dashboard's counters on a private Prometheus
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "botdeck"

// Metrics holds every collector the dashboard updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	lines         prometheus.Gauge
	botRuns       *prometheus.CounterVec
	botRunning    prometheus.Gauge
	scheduleTicks *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_fetches_total",
			Help:      "Log fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "log_fetch_duration_seconds",
			Help:      "Duration of log fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_lines",
			Help:      "Lines in the most recent render.",
		}),
		botRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_runs_total",
			Help:      "Bot trigger calls by outcome.",
		}, []string{"outcome"}),
		botRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bot_running",
			Help:      "1 while the bot is believed to be running.",
		}),
		scheduleTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_ticks_total",
			Help:      "Schedule ticks by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.fetches,
		m.fetchDuration,
		m.lines,
		m.botRuns,
		m.botRunning,
		m.scheduleTicks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler serves the registry in the Prometheus exposition format.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// FetchSucceeded records a successful fetch that rendered n lines.
func (m *Metrics) FetchSucceeded(took time.Duration, n int) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues("success").Inc()
	m.fetchDuration.Observe(took.Seconds())
	m.lines.Set(float64(n))
}

// FetchFailed records a failed fetch.
func (m *Metrics) FetchFailed(took time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues("failure").Inc()
	m.fetchDuration.Observe(took.Seconds())
}

// Cleared resets the line gauge.
func (m *Metrics) Cleared() {
	if m == nil {
		return
	}
	m.lines.Set(0)
}

// BotSettled records the outcome of a trigger call.
func (m *Metrics) BotSettled(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.botRuns.WithLabelValues("failure").Inc()
		return
	}
	m.botRuns.WithLabelValues("success").Inc()
}

// BotRunning sets the running gauge.
func (m *Metrics) BotRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.botRunning.Set(1)
	} else {
		m.botRunning.Set(0)
	}
}

// ScheduleTick records one schedule tick.
func (m *Metrics) ScheduleTick(triggered bool) {
	if m == nil {
		return
	}
	if triggered {
		m.scheduleTicks.WithLabelValues("triggered").Inc()
	} else {
		m.scheduleTicks.WithLabelValues("skipped").Inc()
	}
}
