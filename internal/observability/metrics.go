package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Metrics bundles the service's Prometheus collectors behind nil-safe
// helpers, so tests can construct services without a registry.
type Metrics struct {
	registry             *prometheus.Registry
	messagesIngested     *prometheus.CounterVec
	conversationsCreated prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	messagesIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "messaging_messages_ingested_total",
		Help: "Messages stored, labeled by channel type and direction.",
	}, []string{"channel", "direction"})
	conversationsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messaging_conversations_created_total",
		Help: "Conversations created by find-or-create.",
	})
	registry.MustRegister(messagesIngested, conversationsCreated)

	return &Metrics{
		registry:             registry,
		messagesIngested:     messagesIngested,
		conversationsCreated: conversationsCreated,
	}
}

func (m *Metrics) MessageIngested(channel, direction string) {
	if m == nil {
		return
	}
	m.messagesIngested.WithLabelValues(channel, direction).Inc()
}

func (m *Metrics) ConversationCreated() {
	if m == nil {
		return
	}
	m.conversationsCreated.Inc()
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
