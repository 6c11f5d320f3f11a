package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout outcomes and tracks their latency.
type CheckoutMetrics struct {
	Checkouts  *prometheus.CounterVec
	ItemsSold  prometheus.Counter
	DurationMS prometheus.Histogram
}

func NewCheckoutMetrics() *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "total",
		Help:      "Total number of checkout attempts by outcome.",
	}, []string{"status"})
	itemsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "items_sold_total",
		Help:      "Total number of line-item units sold.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "duration_ms",
		Help:      "Checkout latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(checkouts, itemsSold, duration)
	return &CheckoutMetrics{Checkouts: checkouts, ItemsSold: itemsSold, DurationMS: duration}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
