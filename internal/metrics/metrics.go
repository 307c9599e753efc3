// Package metrics provides Prometheus collectors for analysis cycles, runs,
// service calls and dropped fire-and-forget tasks.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codemate"

// Collector records session metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cyclesStarted   prometheus.Counter
	cyclesTotal     *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	runsTotal       *prometheus.CounterVec
	tasksDropped    *prometheus.CounterVec
}

// New creates a Collector with Go runtime and process collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "service_requests_total",
				Help:      "Total number of analysis service requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "service_request_duration_seconds",
				Help:      "Duration of analysis service requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		cyclesStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_started_total",
				Help:      "Total number of analysis cycles started",
			},
		),
		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Total number of settled analysis cycles by compile outcome",
			},
			[]string{"outcome"},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Time from analyze request until the cycle's blocking calls settled",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of program runs by result",
			},
			[]string{"result"},
		),
		tasksDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "background_task_errors_total",
				Help:      "Fire-and-forget tasks whose error was swallowed",
			},
			[]string{"task"},
		),
	}
}

// ObserveRequest records one finished service call.
func (c *Collector) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	c.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// CycleStarted counts a new analysis cycle.
func (c *Collector) CycleStarted() {
	c.cyclesStarted.Inc()
}

// CycleFinished records a settled cycle.
func (c *Collector) CycleFinished(outcome string, elapsed time.Duration) {
	c.cyclesTotal.WithLabelValues(outcome).Inc()
	c.cycleDuration.Observe(elapsed.Seconds())
}

// RunFinished records a program run.
func (c *Collector) RunFinished(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}

	c.runsTotal.WithLabelValues(result).Inc()
}

// TaskDropped counts a fire-and-forget task that failed.
func (c *Collector) TaskDropped(task string) {
	c.tasksDropped.WithLabelValues(task).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
