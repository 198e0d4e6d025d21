package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabula_ai_requests_total",
			Help: "Total number of requests to the AI backend.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabula_ai_request_duration_seconds",
			Help:    "Histogram of AI backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabula_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250, 500, ..., 5000
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabula_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabula_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(500, 500, 20),
		},
		[]string{"model"},
	)
)

// observeUsage записывает метрики токенов одного успешного вызова.
func observeUsage(model string, promptTokens, completionTokens int) {
	if promptTokens+completionTokens == 0 {
		return
	}
	aiPromptTokens.With(prometheus.Labels{"model": model}).Observe(float64(promptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": model}).Observe(float64(completionTokens))
	aiTotalTokens.With(prometheus.Labels{"model": model}).Observe(float64(promptTokens + completionTokens))
}
