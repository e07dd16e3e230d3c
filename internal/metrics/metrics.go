// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Acceptance outcomes.
const (
	OutcomeAccepted        = "accepted"
	OutcomeAlreadyAssigned = "already_assigned"
	OutcomeNotEligible     = "not_eligible"
	OutcomeDriverNotFound  = "driver_not_found"
	OutcomeOrderNotFound   = "order_not_found"
	OutcomeError           = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	acceptances    *prometheus.CounterVec
	feedSize       *prometheus.HistogramVec
	ordersCreated  prometheus.Counter
	bidsPlaced     prometheus.Counter
	statusAdvances *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		acceptances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_acceptances_total",
				Help: "Order acceptance attempts by outcome",
			},
			[]string{"outcome"},
		),
		feedSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "order_feed_size",
				Help:    "Number of orders returned per feed request",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"feed"},
		),
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		}),
		bidsPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "bids_placed_total",
			Help: "Total number of bids placed",
		}),
		statusAdvances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Order status transitions performed by drivers",
			},
			[]string{"to"},
		),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAcceptance records the outcome of an acceptance attempt.
func (m *Metrics) ObserveAcceptance(outcome string) {
	if m == nil {
		return
	}
	m.acceptances.WithLabelValues(outcome).Inc()
}

// ObserveFeed records the size of a returned feed.
func (m *Metrics) ObserveFeed(feed string, size int) {
	if m == nil {
		return
	}
	m.feedSize.WithLabelValues(feed).Observe(float64(size))
}

// OrderCreated counts a created order.
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// BidPlaced counts a placed bid.
func (m *Metrics) BidPlaced() {
	if m == nil {
		return
	}
	m.bidsPlaced.Inc()
}

// StatusAdvanced counts a lifecycle transition.
func (m *Metrics) StatusAdvanced(to string) {
	if m == nil {
		return
	}
	m.statusAdvances.WithLabelValues(to).Inc()
}
