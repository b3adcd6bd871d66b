// Package engine 实现分析流水线的编排：获取记录窗口，分别走趋势与
// 痛点两条分析路径（各自在推理路径与降级路径间选择），最后交给报告
// 合成器。趋势与痛点共享同一个熔断器实例——两条路径调用同一个外部
// 服务，这里沿用了这一继承下来的设计，见 DESIGN.md。
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bytedance/gg/gson"

	"github.com/iWorld-y/insight_radar/internal/breaker"
	"github.com/iWorld-y/insight_radar/internal/fallback"
	"github.com/iWorld-y/insight_radar/internal/logger"
	"github.com/iWorld-y/insight_radar/internal/metrics"
	dm "github.com/iWorld-y/insight_radar/internal/model"
	"github.com/iWorld-y/insight_radar/internal/parse"
	"github.com/iWorld-y/insight_radar/internal/report"
	"github.com/iWorld-y/insight_radar/internal/retry"
	"github.com/iWorld-y/insight_radar/internal/storage"
)

// WindowProvider 记录窗口提供方
type WindowProvider interface {
	FetchWindow(ctx context.Context, days int) (*dm.AnalysisWindow, error)
}

// InferenceClient 外部推理客户端
type InferenceClient interface {
	RequestTrendInsights(ctx context.Context, records []dm.Record) (string, error)
	RequestProblemInsights(ctx context.Context, records []dm.Record) (string, error)
}

// Engine 流水线编排器
type Engine struct {
	provider WindowProvider
	llm      InferenceClient
	brk      *breaker.Breaker
	exec     *retry.Executor
	store    *storage.Storage
}

// New 创建编排器。store 可为 nil（不持久化）。
func New(provider WindowProvider, llm InferenceClient, brk *breaker.Breaker, exec *retry.Executor, store *storage.Storage) *Engine {
	return &Engine{
		provider: provider,
		llm:      llm,
		brk:      brk,
		exec:     exec,
		store:    store,
	}
}

// GenerateReport 生成最近 days 天的洞察报告文本。窗口为空时直接产出
// 空报告，跳过两条分析，避免浪费一次外部调用。提供方错误原样上抛。
func (e *Engine) GenerateReport(ctx context.Context, days int) (string, error) {
	_, text, err := e.Generate(ctx, days)
	return text, err
}

// Generate 同 GenerateReport，但把结构化报告一并返回给需要二次渲染的
// 调用方（worker 的 HTML 输出）。
func (e *Engine) Generate(ctx context.Context, days int) (*dm.AnalysisReport, string, error) {
	// 报告一旦开始生成就运行到完成：调用方（如 HTTP 请求）取消或超时
	// 不中断流水线，也不能把取消错误算进熔断器的失败统计
	ctx = context.WithoutCancel(ctx)

	window, err := e.provider.FetchWindow(ctx, days)
	if err != nil {
		return nil, "", err
	}

	rep := &dm.AnalysisReport{WindowLabel: window.Label(), Days: days}

	if !window.Empty() {
		// 两条分析相互独立，并发执行，完成顺序不限
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			rep.Trends = e.trendInsights(ctx, window.Records)
		}()
		go func() {
			defer wg.Done()
			rep.Problems = e.problemInsights(ctx, window.Records)
		}()
		wg.Wait()
	} else {
		logger.Log.Infof("窗口 [%s] 为空，跳过分析", rep.WindowLabel)
	}

	text := report.Render(rep.WindowLabel, rep.Trends, rep.Problems)
	metrics.ReportsGeneratedTotal.Inc()

	if e.store != nil {
		if runID, err := e.store.SaveReport(ctx, rep, text); err != nil {
			logger.Log.Errorf("保存报告失败: %v", err)
		} else {
			logger.Log.Infof("报告已保存 (run=%d)", runID)
		}
	}

	return rep, text, nil
}

// AnalyzeTrends 返回原始趋势洞察，供不需要渲染文本的调用方使用
func (e *Engine) AnalyzeTrends(ctx context.Context, days int) ([]dm.TrendInsight, error) {
	ctx = context.WithoutCancel(ctx)

	window, err := e.provider.FetchWindow(ctx, days)
	if err != nil {
		return nil, err
	}
	if window.Empty() {
		return nil, nil
	}
	return e.trendInsights(ctx, window.Records), nil
}

// AnalyzeProblems 返回原始痛点洞察
func (e *Engine) AnalyzeProblems(ctx context.Context, days int) ([]dm.ProblemInsight, error) {
	ctx = context.WithoutCancel(ctx)

	window, err := e.provider.FetchWindow(ctx, days)
	if err != nil {
		return nil, err
	}
	if window.Empty() {
		return nil, nil
	}
	return e.problemInsights(ctx, window.Records), nil
}

// trendInsights 趋势分析：熔断器放行则走推理路径（重试包裹），
// 否则或重试耗尽后走降级分析器。推理路径的一切失败都终结于一个
// 成功（可能为空）的洞察集合，绝不向上冒泡。
func (e *Engine) trendInsights(ctx context.Context, records []dm.Record) []dm.TrendInsight {
	if !e.brk.AllowAttempt() {
		logger.Log.Warn("熔断器断开，趋势分析走降级路径")
		metrics.FallbacksTotal.WithLabelValues("trend", "breaker_open").Inc()
		return fallback.Trends(records)
	}

	raw, err := e.exec.Execute(ctx, e.brk, func(ctx context.Context) (string, error) {
		return e.requestWithMetrics(ctx, "trend", records, e.llm.RequestTrendInsights)
	})
	if err != nil {
		// 重试执行器只返回耗尽信号，设计上的响应永远是降级
		if errors.Is(err, retry.ErrAttemptsExhausted) {
			metrics.BreakerOpensTotal.Inc()
		}
		metrics.FallbacksTotal.WithLabelValues("trend", "exhausted").Inc()
		return fallback.Trends(records)
	}

	insights := parse.TrendInsights(raw)
	logger.Log.Debugf("趋势洞察: %s", gson.ToString(insights))
	return insights
}

// problemInsights 痛点分析，结构与 trendInsights 对称
func (e *Engine) problemInsights(ctx context.Context, records []dm.Record) []dm.ProblemInsight {
	if !e.brk.AllowAttempt() {
		logger.Log.Warn("熔断器断开，痛点分析走降级路径")
		metrics.FallbacksTotal.WithLabelValues("problem", "breaker_open").Inc()
		return fallback.Problems(records)
	}

	raw, err := e.exec.Execute(ctx, e.brk, func(ctx context.Context) (string, error) {
		return e.requestWithMetrics(ctx, "problem", records, e.llm.RequestProblemInsights)
	})
	if err != nil {
		if errors.Is(err, retry.ErrAttemptsExhausted) {
			metrics.BreakerOpensTotal.Inc()
		}
		metrics.FallbacksTotal.WithLabelValues("problem", "exhausted").Inc()
		return fallback.Problems(records)
	}

	insights := parse.ProblemInsights(raw)
	logger.Log.Debugf("痛点洞察: %s", gson.ToString(insights))
	return insights
}

func (e *Engine) requestWithMetrics(ctx context.Context, analysis string, records []dm.Record,
	call func(context.Context, []dm.Record) (string, error)) (string, error) {
	metrics.LLMRequestsTotal.WithLabelValues(analysis).Inc()
	start := time.Now()
	raw, err := call(ctx, records)
	metrics.LLMLatency.WithLabelValues(analysis).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMErrorsTotal.WithLabelValues(analysis).Inc()
	}
	return raw, err
}
