package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crew_assistant"

// Chat records responder traffic. A nil *Chat is a no-op.
type Chat struct {
	replies     *prometheus.CounterVec
	aiFallbacks *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	reloads     *prometheus.CounterVec
}

func NewChat(reg prometheus.Registerer) *Chat {
	f := promauto.With(reg)
	return &Chat{
		replies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Chat replies by intent and answer source.",
		}, []string{"intent", "source"}),
		aiFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "AI delegations that fell back to the keyword reply.",
		}, []string{"reason"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_reply_duration_seconds",
			Help:      "Time to produce a chat reply.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		reloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_reloads_total",
			Help:      "Snapshot reloads by result.",
		}, []string{"result"}),
	}
}

func (m *Chat) ObserveReply(intent, source string, d time.Duration) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(intent, source).Inc()
	m.latency.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Chat) IncAIFallback(reason string) {
	if m == nil {
		return
	}
	m.aiFallbacks.WithLabelValues(reason).Inc()
}

func (m *Chat) IncReload(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// HTTP records request counts and latency per route template.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *HTTP) Observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}
