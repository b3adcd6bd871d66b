package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMRequestsTotal 按分析类型统计的 LLM 调用次数
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_radar_llm_requests_total",
			Help: "Total number of LLM requests",
		},
		[]string{"analysis"},
	)

	// LLMErrorsTotal 单次 LLM 调用失败次数
	LLMErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_radar_llm_errors_total",
			Help: "Total number of failed LLM requests",
		},
		[]string{"analysis"},
	)

	// LLMLatency LLM 调用耗时
	LLMLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insight_radar_llm_latency_seconds",
			Help:    "LLM request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"analysis"},
	)

	// FallbacksTotal 降级分析触发次数
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_radar_fallbacks_total",
			Help: "Total number of fallback analyzer activations",
		},
		[]string{"analysis", "reason"},
	)

	// BreakerOpensTotal 熔断器断开次数
	BreakerOpensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insight_radar_breaker_opens_total",
			Help: "Total number of circuit breaker open transitions",
		},
	)

	// ReportsGeneratedTotal 生成报告总数
	ReportsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insight_radar_reports_generated_total",
			Help: "Total number of reports generated",
		},
	)
)
