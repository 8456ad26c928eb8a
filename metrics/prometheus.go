package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// BookingsTotal counts booking attempts by outcome
	// (created, insufficient_balance, unavailable, failed, cancelled).
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	WalletTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_wallet_transactions_total",
			Help: "Wallet ledger entries by type",
		},
		[]string{"type"},
	)

	WalletAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messmate_wallet_amount",
			Help:    "Wallet transaction amounts",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		},
		[]string{"type"},
	)

	InventoryLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "messmate_inventory_level",
			Help: "Current stock of an inventory item",
		},
		[]string{"item"},
	)

	InventoryAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_inventory_alerts_total",
			Help: "Inventory alerts raised by type",
		},
		[]string{"type"},
	)

	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messmate_realtime_connections",
			Help: "Open realtime socket connections",
		},
	)

	// CircuitBreakerState is 0=closed, 1=open, 2=half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"circuit_name"},
	)

	DashboardDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_dashboard_degraded_total",
			Help: "Dashboard sections that fell back to empty values",
		},
		[]string{"section"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// PrometheusMiddleware records request count and latency labelled by the
// matched route template so path parameters do not explode cardinality.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}

		RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
