// Package metrics регистрирует прометеевские счётчики сервиса.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClaimsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_claims_submitted_total",
			Help: "Claims accepted, by item kind.",
		},
		[]string{"kind"},
	)

	ClaimDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_claim_decisions_total",
			Help: "Owner decisions on claims, by resulting status.",
		},
		[]string{"status"},
	)

	ChatMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_chat_messages_total",
			Help: "Chat messages persisted, by transport (http|ws).",
		},
		[]string{"transport"},
	)

	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lostfound_match_candidates",
			Help:    "Number of match candidates returned per create/update.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	RealtimeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lostfound_realtime_connections",
			Help: "Open websocket connections.",
		},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_rate_limited_total",
			Help: "Requests rejected by the per-user limiter, by transport.",
		},
		[]string{"transport"},
	)
)

func init() {
	prometheus.MustRegister(
		ClaimsSubmitted,
		ClaimDecisions,
		ChatMessages,
		MatchCandidates,
		RealtimeConnections,
		RateLimited,
	)
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
