// Package metrics 提供会话编排相关的 Prometheus 指标收集。
// 仅供本项目内部使用。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 会话编排指标
	orchestrationsTotal   *prometheus.CounterVec
	orchestrationDuration *prometheus.HistogramVec
	orchestrationRounds   *prometheus.HistogramVec

	// 外部调用指标
	agentInvocationsTotal *prometheus.CounterVec
	retrievalCallsTotal   *prometheus.CounterVec
	toolCallsTotal        *prometheus.CounterVec

	// 持久化与缓存指标
	turnsSavedTotal *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	logger *zap.Logger
}

// NewCollector 创建指标收集器并向默认 registry 注册全部指标
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.orchestrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orchestrations_total",
			Help:      "Total number of conversation orchestrations",
		},
		[]string{"mode", "status"},
	)

	c.orchestrationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "orchestration_duration_seconds",
			Help:      "End-to-end orchestration duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)

	c.orchestrationRounds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "orchestration_rounds",
			Help:      "Number of agent rounds per orchestration",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		},
		[]string{"mode"},
	)

	c.agentInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_invocations_total",
			Help:      "Total number of agent runtime invocations",
		},
		[]string{"kind", "status"},
	)

	c.retrievalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_calls_total",
			Help:      "Total number of knowledge retrieval calls",
		},
		[]string{"status"},
	)

	c.toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of returned-control tool calls",
		},
		[]string{"kind"},
	)

	c.turnsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_saved_total",
			Help:      "Total number of conversation turns persisted",
		},
		[]string{"role"},
	)

	c.cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits",
	})

	c.cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses",
	})

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 记录方法
// =============================================================================

// RecordHTTPRequest 记录一次 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOrchestration 记录一次完整编排
func (c *Collector) RecordOrchestration(mode, status string, rounds int, duration time.Duration) {
	c.orchestrationsTotal.WithLabelValues(mode, status).Inc()
	c.orchestrationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	c.orchestrationRounds.WithLabelValues(mode).Observe(float64(rounds))
}

// RecordAgentInvocation 记录一次 agent 调用（kind: invoke / resume）
func (c *Collector) RecordAgentInvocation(kind, status string) {
	c.agentInvocationsTotal.WithLabelValues(kind, status).Inc()
}

// RecordRetrievalCall 记录一次检索调用
func (c *Collector) RecordRetrievalCall(status string) {
	c.retrievalCallsTotal.WithLabelValues(status).Inc()
}

// RecordToolCall 记录一次工具调用（kind: knowledge / context / unknown）
func (c *Collector) RecordToolCall(kind string) {
	c.toolCallsTotal.WithLabelValues(kind).Inc()
}

// RecordTurnSaved 记录一条持久化的会话消息
func (c *Collector) RecordTurnSaved(role string) {
	c.turnsSavedTotal.WithLabelValues(role).Inc()
}

// RecordCacheHit 记录缓存命中
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordCacheMiss 记录缓存未命中
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Inc()
}
