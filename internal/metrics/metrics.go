// Package metrics exposes Prometheus collectors for post fetching and list
// runs. Collectors register on an injected registry so tests and embedding
// hosts can keep them isolated from the global default.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blog"

// Collectors groups the blog's metrics. It satisfies fetch.Observer and
// posts.ListObserver.
type Collectors struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	listRuns      prometheus.Counter
	listLoaded    prometheus.Gauge
	listFailed    prometheus.Gauge
	listDuration  prometheus.Histogram
}

// New registers the collectors on registry. A nil registry gets a fresh one
// with the Go and process collectors attached.
func New(registry *prometheus.Registry) *Collectors {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collectors{
		registry: registry,
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Post file fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching a post file, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		listRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "list_runs_total",
			Help:      "Completed post list runs.",
		}),
		listLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "list_loaded",
			Help:      "Posts loaded by the latest list run.",
		}),
		listFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "list_failed",
			Help:      "Files that failed in the latest list run.",
		}),
		listDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "list_duration_seconds",
			Help:      "Wall time of post list runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		c.fetchTotal,
		c.fetchDuration,
		c.listRuns,
		c.listLoaded,
		c.listFailed,
		c.listDuration,
	)
	return c
}

// ObserveFetch records one completed fetch.
func (c *Collectors) ObserveFetch(source, outcome string, elapsed time.Duration) {
	c.fetchTotal.WithLabelValues(source, outcome).Inc()
	c.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveList records the totals of one list run.
func (c *Collectors) ObserveList(loaded, failed int, elapsed time.Duration) {
	c.listRuns.Inc()
	c.listLoaded.Set(float64(loaded))
	c.listFailed.Set(float64(failed))
	c.listDuration.Observe(elapsed.Seconds())
}

// Registry returns the registry the collectors live on.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
