// Package fallback 提供离线的确定性分析器，在外部推理服务不可用时
// 以记录统计和关键词匹配产出尽力而为的洞察。输出与推理路径满足相同的
// 字段约束，报告合成器无需区分来源。
package fallback

import (
	"fmt"
	"math"

	"github.com/iWorld-y/insight_radar/internal/model"
)

// Trends 基于 subreddit 分组统计生成趋势洞察。完全确定性：
// 相同输入序列总是得到相同输出序列。
func Trends(records []model.Record) []model.TrendInsight {
	if len(records) == 0 {
		return nil
	}

	// 按 subreddit 分组计数，保留首次出现顺序以保证排序稳定
	counts := make(map[string]int)
	var order []string
	var totalScore, totalComments int
	for _, r := range records {
		if _, ok := counts[r.Subreddit]; !ok {
			order = append(order, r.Subreddit)
		}
		counts[r.Subreddit]++
		totalScore += r.Score
		totalComments += r.Comments
	}

	top := order[0]
	for _, sub := range order[1:] {
		if counts[sub] > counts[top] {
			top = sub
		}
	}

	total := len(records)
	meanScore := float64(totalScore) / float64(total)
	meanComments := float64(totalComments) / float64(total)

	insights := []model.TrendInsight{{
		Trend:            fmt.Sprintf("Rising discussion volume in r/%s", top),
		GrowthPercentage: math.Round(float64(counts[top]) / float64(total) * 100),
		TimePeriod:       "30 days",
		MarketAnalysis: fmt.Sprintf("r/%s accounts for %d of %d recent posts (avg score %.1f, avg comments %.1f)",
			top, counts[top], total, meanScore, meanComments),
		CompetitionLevel: model.LevelMedium,
		EntryCost:        model.LevelLow,
		Recommendation:   "Monitor this community closely and validate demand with a small experiment",
		Confidence:       60,
	}}

	if meanScore > 100 {
		insights = append(insights, model.TrendInsight{
			Trend:            "High-engagement content across tracked communities",
			GrowthPercentage: math.Round(meanScore / 100 * 10),
			TimePeriod:       "30 days",
			MarketAnalysis: fmt.Sprintf("Average post score of %.1f indicates unusually strong audience engagement",
				meanScore),
			CompetitionLevel: model.LevelHigh,
			EntryCost:        model.LevelMedium,
			Recommendation:   "Study top-scoring posts to identify the content formats driving engagement",
			Confidence:       70,
		})
	}

	return insights
}
