package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	ProxiedRequests  *prometheus.CounterVec
	RoutingMisses    prometheus.Counter
	UpstreamFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the gateway collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProxiedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_proxied_requests_total",
			Help: "Requests forwarded to an upstream service, by target and response status.",
		}, []string{"target", "status"}),
		RoutingMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_routing_misses_total",
			Help: "Requests whose path matched no upstream service.",
		}),
		UpstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_failures_total",
			Help: "Transport-level failures talking to an upstream service.",
		}, []string{"target"}),
	}
}
