// Package metrics exposes Prometheus collectors for the HTTP API and cart events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kart"

// Metrics holds every collector of the service.
type Metrics struct {
	Requests           *prometheus.CounterVec
	Latency            *prometheus.HistogramVec
	ItemsAdded         prometheus.Counter
	Saves              *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route"}),
		ItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "units_added_total",
			Help:      "Units added to carts.",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "saves_total",
			Help:      "Cart saves by result.",
		}, []string{"result"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "validation_failures_total",
			Help:      "Invalid line items reported by cart validation, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.Requests, m.Latency, m.ItemsAdded, m.Saves, m.ValidationFailures)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// UnitsAdded counts units added to a cart.
func (m *Metrics) UnitsAdded(units int) {
	if units > 0 {
		m.ItemsAdded.Add(float64(units))
	}
}

// SaveCompleted counts a cart save attempt.
func (m *Metrics) SaveCompleted(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Saves.WithLabelValues(result).Inc()
}

// ValidationFailed counts an invalid line item.
func (m *Metrics) ValidationFailed(reason string) {
	m.ValidationFailures.WithLabelValues(reason).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
