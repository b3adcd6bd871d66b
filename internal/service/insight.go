package service

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/insight_radar/internal/engine"
	"github.com/iWorld-y/insight_radar/internal/model"
	"github.com/iWorld-y/insight_radar/internal/storage"
)

const (
	defaultDays = 7
	maxDays     = 90
)

// InsightService 洞察服务，封装编排器供 HTTP 层调用
type InsightService struct {
	eng   *engine.Engine
	store *storage.Storage
	log   *log.Helper
}

// NewInsightService 创建洞察服务。store 可为 nil。
func NewInsightService(eng *engine.Engine, store *storage.Storage, logger log.Logger) *InsightService {
	return &InsightService{
		eng:   eng,
		store: store,
		log:   log.NewHelper(logger),
	}
}

// ClampDays 校验回溯天数，非法值回落到默认值
func ClampDays(days int) int {
	if days <= 0 {
		return defaultDays
	}
	if days > maxDays {
		return maxDays
	}
	return days
}

// GenerateReport 生成并返回报告文本
func (s *InsightService) GenerateReport(ctx context.Context, days int) (string, error) {
	days = ClampDays(days)
	reqID := uuid.NewString()
	s.log.WithContext(ctx).Infof("generate report: req=%s days=%d", reqID, days)

	text, err := s.eng.GenerateReport(ctx, days)
	if err != nil {
		s.log.WithContext(ctx).Errorf("generate report failed: req=%s err=%v", reqID, err)
		return "", err
	}
	return text, nil
}

// AnalyzeTrends 返回原始趋势洞察
func (s *InsightService) AnalyzeTrends(ctx context.Context, days int) ([]model.TrendInsight, error) {
	return s.eng.AnalyzeTrends(ctx, ClampDays(days))
}

// AnalyzeProblems 返回原始痛点洞察
func (s *InsightService) AnalyzeProblems(ctx context.Context, days int) ([]model.ProblemInsight, error) {
	return s.eng.AnalyzeProblems(ctx, ClampDays(days))
}

// ListRuns 分页列出历史运行
func (s *InsightService) ListRuns(ctx context.Context, page, pageSize int) ([]storage.RunSummary, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not configured")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return s.store.ListRuns(ctx, pageSize, (page-1)*pageSize)
}

// GetRun 读取一次历史运行
func (s *InsightService) GetRun(ctx context.Context, id int) (*storage.Run, error) {
	if s.store == nil {
		return nil, storage.ErrNotFound
	}
	return s.store.GetRun(ctx, id)
}
