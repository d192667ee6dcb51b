// ABOUTME: Prometheus metrics for the chat HTTP boundary
// ABOUTME: Tracks request counts, answer latency, and fallback answers
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ragbot_chat_requests_total",
		Help: "Chat requests handled, labeled by outcome (ok, error).",
	}, []string{"outcome"})

	fallbackAnswers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ragbot_fallback_answers_total",
		Help: "Answers that resolved to the canonical fallback text.",
	})

	answerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ragbot_answer_duration_seconds",
		Help:    "End-to-end answer generation latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)
