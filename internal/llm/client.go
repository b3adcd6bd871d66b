// Package llm 封装对外部推理服务的单次调用：构造有界载荷、限流、
// 发起一次 Generate。本包不重试、不触碰熔断器状态——那是重试执行器
// 的职责；任何传输或服务端错误原样上抛。
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/gg/gson"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/logger"
	dm "github.com/iWorld-y/insight_radar/internal/model"
)

const (
	// defaultMaxRecords 单次请求携带的记录上限
	defaultMaxRecords = 500
	// bodyLimit 送入 LLM 前正文截断长度，约束载荷大小
	bodyLimit = 250
)

// Client 推理服务客户端
type Client struct {
	chatModel  model.ChatModel
	limiter    *rate.Limiter
	maxRecords int
}

// NewClient 创建推理客户端并初始化限流器
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	if cfg.Concurrency.RPM <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Concurrency.QPS
	if burst <= 0 {
		burst = 1
	}

	maxRecords := cfg.Analysis.MaxRecords
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}

	return &Client{
		chatModel:  chatModel,
		limiter:    rate.NewLimiter(limit, burst),
		maxRecords: maxRecords,
	}, nil
}

// newWithModel 测试注入用
func newWithModel(cm model.ChatModel, maxRecords int) *Client {
	return &Client{
		chatModel:  cm,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxRecords: maxRecords,
	}
}

const trendPrompt = `You are a market analyst. Based on the posts above, identify emerging trends.
Return ONLY a JSON array, no markdown markers, in exactly this shape:
[
  {
    "trend": "short trend name",
    "growth_percentage": 42,
    "time_period": "30 days",
    "market_analysis": "one paragraph of analysis",
    "competition_level": "Low|Medium|High",
    "entry_cost": "Low|Medium|High",
    "recommendation": "one actionable recommendation",
    "confidence": 80
  }
]`

const problemPrompt = `You are a market analyst. Based on the posts above, identify recurring user problems worth solving.
Return ONLY a JSON array, no markdown markers, in exactly this shape:
[
  {
    "problem": "short problem statement",
    "frequency": 12,
    "severity": "Low|Medium|High",
    "potential_solutions": ["solution 1", "solution 2"],
    "market_size": "Small|Medium|Large",
    "urgency": "Low|Medium|High"
  }
]`

// RequestTrendInsights 请求趋势洞察，返回原始文本
func (c *Client) RequestTrendInsights(ctx context.Context, records []dm.Record) (string, error) {
	return c.generate(ctx, records, trendPrompt)
}

// RequestProblemInsights 请求痛点洞察，返回原始文本
func (c *Client) RequestProblemInsights(ctx context.Context, records []dm.Record) (string, error) {
	return c.generate(ctx, records, problemPrompt)
}

// generate 每次调用恰好发起一次外部请求
func (c *Client) generate(ctx context.Context, records []dm.Record, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a JSON generator. Output a JSON array and nothing else."},
		{Role: schema.User, Content: c.buildPayload(records) + "\n\n" + prompt},
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	logger.Log.Debugf("LLM 原始响应: %s", gson.ToString(resp))

	return resp.Content, nil
}

// buildPayload 把记录投影成小字段集合并截断正文，最多携带 maxRecords 条
func (c *Client) buildPayload(records []dm.Record) string {
	if len(records) > c.maxRecords {
		records = records[:c.maxRecords]
	}

	var sb strings.Builder
	sb.WriteString("Recent posts from tracked communities:\n\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "Post %d:\ntitle: %s\nsubreddit: %s\nscore: %d\ncomments: %d\ncreated: %s\nbody: %s\n\n",
			i+1, r.Title, r.Subreddit, r.Score, r.Comments, r.CreatedAt.Format(time.RFC3339),
			truncateRunes(r.Body, bodyLimit))
	}
	return sb.String()
}

// truncateRunes 按字节上限截断，回退到 rune 边界，保证结果仍是合法 UTF-8
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
