// Package metrics holds the Prometheus collectors of the client core.
//
// Collectors are created per instance and registered on a caller-supplied
// registerer, so several sessions (or parallel tests) never share counters.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bankclient"

type Metrics struct {
	Requests             *prometheus.CounterVec
	UnauthorizedCleanups prometheus.Counter
	Logins               *prometheus.CounterVec
	ExpiryWatchActive    prometheus.Gauge
	ExpiryWatchStarts    prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is enough for in-process instrumentation.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests by method and status code (0 = no response).",
		}, []string{"method", "code"}),
		UnauthorizedCleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "unauthorized_cleanups_total",
			Help:      "Local session purges triggered by 401 responses or expired tokens.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"result"}),
		ExpiryWatchActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "expiry_watch_active",
			Help:      "Number of running token expiry watchers.",
		}),
		ExpiryWatchStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "expiry_watch_starts_total",
			Help:      "Expiry watchers started.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.UnauthorizedCleanups, m.Logins, m.ExpiryWatchActive, m.ExpiryWatchStarts)
	}
	return m
}

func (m *Metrics) ObserveRequest(method string, code int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveCleanup() {
	if m == nil {
		return
	}
	m.UnauthorizedCleanups.Inc()
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) WatchStarted() {
	if m == nil {
		return
	}
	m.ExpiryWatchStarts.Inc()
	m.ExpiryWatchActive.Inc()
}

func (m *Metrics) WatchStopped() {
	if m == nil {
		return
	}
	m.ExpiryWatchActive.Dec()
}
