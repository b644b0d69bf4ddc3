// Package observability provides Prometheus metrics for provider calls and
// conversation lifecycle, plus an instrumented HTTP transport.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ProviderRequestsTotal counts calls to the 1min.ai API by operation and
	// outcome ("ok", "auth_error", "rate_limited", "error", "parse_error").
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onemin_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"operation", "status"},
	)

	// ProviderLatency records provider call latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onemin_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"operation"},
	)

	// HTTPResponsesTotal counts raw HTTP responses by method and status class.
	HTTPResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onemin_http_responses_total",
			Help: "HTTP responses received from the provider",
		},
		[]string{"method", "status"},
	)

	// ConversationsCreatedTotal counts remote conversations created.
	ConversationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "onemin_conversations_created_total",
			Help: "Conversations created",
		},
	)

	// ConversationsClearedTotal counts clear attempts by result
	// ("cleared" or "retained").
	ConversationsClearedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onemin_conversations_cleared_total",
			Help: "Conversation clear attempts",
		},
		[]string{"result"},
	)

	// ActiveConversations tracks entries currently held by the registry.
	ActiveConversations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "onemin_conversations_active",
			Help: "Active conversations",
		},
	)

	// OptionWritesTotal counts persisted option changes by scope
	// ("defaults", "model", "document").
	OptionWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onemin_option_writes_total",
			Help: "Option writes",
		},
		[]string{"scope"},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		HTTPResponsesTotal,
		ConversationsCreatedTotal,
		ConversationsClearedTotal,
		ActiveConversations,
		OptionWritesTotal,
	)
}
