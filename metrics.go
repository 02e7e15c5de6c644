package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "typerace",
		Name:      "rooms_active",
		Help:      "Number of rooms currently registered",
	})

	roomsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "typerace",
		Name:      "rooms_expired_total",
		Help:      "Rooms removed after the idle timeout",
	})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "typerace",
		Name:      "actions_total",
		Help:      "Client actions handled, by action and outcome",
	}, []string{"action", "outcome"})

	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "typerace",
		Name:      "events_dropped_total",
		Help:      "Events dropped because a connection's send queue was full",
	})
)

func observeAction(action string, err error) {
	actionsTotal.WithLabelValues(action, errorCode(err)).Inc()
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
