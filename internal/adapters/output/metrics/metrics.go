// Package metrics exports cleaning run counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"roborock-cleaning-panel/internal/domain/model"
)

const namespace = "roborock_panel"

// RunCollector observes dispatch sequences.
type RunCollector struct {
	registry *prometheus.Registry

	runsStarted   *prometheus.CounterVec
	runsFinished  *prometheus.CounterVec
	commands      *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runInProgress prometheus.Gauge
}

func NewRunCollector() *RunCollector {
	c := &RunCollector{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Cleaning runs started, by kind",
		}, []string{"kind"}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Cleaning runs finished, by kind and result",
		}, []string{"kind", "result"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Platform commands issued during runs, by command and result",
		}, []string{"command", "result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_dispatch_duration_seconds",
			Help:      "Time from run start until the last command was accepted",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		runInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_in_progress",
			Help:      "1 while a dispatch sequence is running",
		}),
	}
	c.registry.MustRegister(c.runsStarted, c.runsFinished, c.commands, c.runDuration, c.runInProgress)
	return c
}

func (c *RunCollector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *RunCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *RunCollector) RunStarted(run model.RunEvent) {
	c.runsStarted.WithLabelValues(string(run.Kind)).Inc()
	c.runInProgress.Set(1)
}

func (c *RunCollector) CommandDispatched(run model.RunEvent, command string, err error) {
	c.commands.WithLabelValues(command, result(err)).Inc()
}

func (c *RunCollector) RunFinished(run model.RunEvent, err error) {
	c.runsFinished.WithLabelValues(string(run.Kind), result(err)).Inc()
	c.runDuration.Observe(run.Duration.Seconds())
	c.runInProgress.Set(0)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
