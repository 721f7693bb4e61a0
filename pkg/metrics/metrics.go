package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes matching engine activity as prometheus collectors on a
// dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	eventsProcessed *prometheus.CounterVec
	eventsFailed    prometheus.Counter
	tradesExecuted  prometheus.Counter
	eventLatency    prometheus.Histogram
	restingOrders   prometheus.Gauge
	bookLevels      *prometheus.GaugeVec
}

// New creates a Metrics instance with all collectors registered under the
// given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		eventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Market data events applied to the book, by event type",
		}, []string{"type"}),
		eventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Market data events that could not be applied",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Trades produced by the matching engine",
		}),
		eventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_latency_seconds",
			Help:      "Wall time spent applying one market data event",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		restingOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_orders",
			Help:      "Orders currently resting in the book",
		}),
		bookLevels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "book_levels",
			Help:      "Distinct price levels per book side",
		}, []string{"side"}),
	}

	registry.MustRegister(
		m.eventsProcessed,
		m.eventsFailed,
		m.tradesExecuted,
		m.eventLatency,
		m.restingOrders,
		m.bookLevels,
	)

	return m
}

// ObserveEvent records one applied market data event and its latency.
func (m *Metrics) ObserveEvent(eventType string, latency time.Duration) {
	m.eventsProcessed.WithLabelValues(eventType).Inc()
	m.eventLatency.Observe(latency.Seconds())
}

// ObserveFailure records one event the book refused.
func (m *Metrics) ObserveFailure() {
	m.eventsFailed.Inc()
}

// AddTrades records trades produced by one operation.
func (m *Metrics) AddTrades(count int) {
	m.tradesExecuted.Add(float64(count))
}

// SetBookState records the current book shape.
func (m *Metrics) SetBookState(restingOrders, bidLevels, askLevels int) {
	m.restingOrders.Set(float64(restingOrders))
	m.bookLevels.WithLabelValues("bid").Set(float64(bidLevels))
	m.bookLevels.WithLabelValues("ask").Set(float64(askLevels))
}

// Handler returns the prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
