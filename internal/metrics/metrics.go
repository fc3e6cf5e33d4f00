// Package metrics records chat activity with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// PrometheusRecorder implements agent.Recorder on its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	chatRequests    *prometheus.CounterVec
	chatDuration    *prometheus.HistogramVec
	augmentations   *prometheus.CounterVec
	searchFallbacks prometheus.Counter
	resets          prometheus.Counter
}

// NewPrometheusRecorder creates a recorder with a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		chatRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpt_agent_chat_requests_total",
				Help: "Chat calls by outcome and failure kind",
			},
			[]string{"outcome", "failure_kind"},
		),
		chatDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpt_agent_chat_duration_seconds",
				Help:    "Duration of chat calls including search and completion",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		augmentations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpt_agent_augmentations_total",
				Help: "Requests augmented with supplementary search text, by reason",
			},
			[]string{"reason"},
		),
		searchFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "gpt_agent_search_fallbacks_total",
			Help: "Augmented requests that used locally synthesized fallback text",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "gpt_agent_resets_total",
			Help: "reset_conversation calls",
		}),
	}
}

// ObserveChat records a finished chat call.
func (p *PrometheusRecorder) ObserveChat(outcome agent.Outcome, kind agent.FailureKind, d time.Duration) {
	p.chatRequests.WithLabelValues(string(outcome), string(kind)).Inc()
	p.chatDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

// ObserveAugmentation records an augmented request.
func (p *PrometheusRecorder) ObserveAugmentation(reason agent.Reason) {
	p.augmentations.WithLabelValues(string(reason)).Inc()
}

// ObserveSearchFallback records use of the fallback search text.
func (p *PrometheusRecorder) ObserveSearchFallback() {
	p.searchFallbacks.Inc()
}

// ObserveReset records a conversation reset.
func (p *PrometheusRecorder) ObserveReset() {
	p.resets.Inc()
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
