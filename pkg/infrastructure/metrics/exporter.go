// Package metrics exports crawl progress to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "web_crawler"

// Exporter implements application.MetricsObserver on a private registry
type Exporter struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	attempts      prometheus.Counter
	links         prometheus.Counter
	fetchDuration prometheus.Histogram

	queueLength   prometheus.Gauge
	visited       prometheus.Gauge
	errors        prometheus.Gauge
	activeWorkers prometheus.Gauge
	limit         prometheus.Gauge
}

// NewExporter creates an exporter with every collector registered
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Concluded fetches by outcome.",
		}, []string{"outcome"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP requests issued, retries included.",
		}),
		links: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_discovered_total",
			Help:      "Links extracted from fetched pages.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of a fetch including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frontier_length",
			Help:      "URLs waiting in the frontier.",
		}),
		visited: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visited_urls",
			Help:      "URLs fetched successfully in the current crawl.",
		}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_errors",
			Help:      "Distinct error messages since the last success.",
		}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Fetches currently in flight.",
		}),
		limit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visit_limit",
			Help:      "Visit limit of the current crawl.",
		}),
	}

	e.registry.MustRegister(
		e.fetches, e.attempts, e.links, e.fetchDuration,
		e.queueLength, e.visited, e.errors, e.activeWorkers, e.limit,
		collectors.NewGoCollector(),
	)
	return e
}

// OnMetricsUpdate mirrors a metrics snapshot into the gauges
func (e *Exporter) OnMetricsUpdate(m *entity.Metrics) {
	e.queueLength.Set(float64(m.QueueLength))
	e.visited.Set(float64(m.Visited))
	e.errors.Set(float64(m.Errors))
	e.activeWorkers.Set(float64(m.ActiveWorkers))
	e.limit.Set(float64(m.Limit))
}

// OnFetch records one concluded fetch
func (e *Exporter) OnFetch(record *entity.FetchLog) {
	outcome := "failure"
	if record.Success {
		outcome = "success"
	}
	e.fetches.WithLabelValues(outcome).Inc()
	e.attempts.Add(float64(record.Attempts))
	e.links.Add(float64(record.Links))
	e.fetchDuration.Observe(float64(record.DurationMs) / 1000)
}

// Registry returns the underlying registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus text format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
