package sports

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetricGatewayRequests counts sports gateway calls by endpoint and outcome.
	MetricGatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportx_gateway_requests_total",
		Help: "Sports gateway requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// MetricHydrationDropped counts league candidates omitted because their hydration failed.
	MetricHydrationDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportx_league_hydration_dropped_total",
		Help: "League candidates dropped after a failed or empty hydration.",
	})

	MetricChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportx_chat_turns_total",
		Help: "Assistant chat turns by outcome.",
	}, []string{"outcome"})

	MetricStaleResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportx_stale_results_discarded_total",
		Help: "Aggregation results discarded because a newer generation superseded them.",
	})
)

func observeGatewayRequest(endpoint string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	MetricGatewayRequests.WithLabelValues(endpoint, outcome).Inc()
}
