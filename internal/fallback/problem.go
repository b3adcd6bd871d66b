package fallback

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/insight_radar/internal/model"
)

// problemKeywords 痛点关键词表，标题或正文命中任意一个即算匹配
var problemKeywords = []string{
	"problem", "issue", "difficult", "struggle",
	"frustrated", "annoying", "broken", "fix", "help",
}

// Problems 基于关键词匹配与低互动占比生成痛点洞察。两项检查相互独立、
// 无条件执行，可能产出零到两条洞察。
func Problems(records []model.Record) []model.ProblemInsight {
	if len(records) == 0 {
		return nil
	}

	var insights []model.ProblemInsight

	matches := 0
	for _, r := range records {
		if matchesKeyword(r) {
			matches++
		}
	}
	if matches > 0 {
		severity := model.LevelMedium
		if matches > 10 {
			severity = model.LevelHigh
		}
		insights = append(insights, model.ProblemInsight{
			Problem:   "Users repeatedly describe unresolved problems and frustrations",
			Frequency: matches,
			Severity:  severity,
			PotentialSolutions: []string{
				"Build a focused tool addressing the most mentioned pain point",
				"Offer a managed service that removes the manual workaround",
				"Publish a guide and capture the audience before launching a product",
			},
			MarketSize: model.MarketLarge,
			Urgency:    model.LevelHigh,
		})
	}

	// 低互动帖：score < 5 且评论数 < 3
	low := 0
	for _, r := range records {
		if r.Score < 5 && r.Comments < 3 {
			low++
		}
	}
	if float64(low) > float64(len(records))*0.3 {
		insights = append(insights, model.ProblemInsight{
			Problem: fmt.Sprintf("Low engagement on %d of %d posts suggests unmet content-market fit",
				low, len(records)),
			Frequency: low,
			Severity:  model.LevelMedium,
			PotentialSolutions: []string{
				"Survey the community about which topics actually matter to them",
				"Experiment with different posting formats and timing",
			},
			MarketSize: model.MarketMedium,
			Urgency:    model.LevelMedium,
		})
	}

	return insights
}

func matchesKeyword(r model.Record) bool {
	title := strings.ToLower(r.Title)
	body := strings.ToLower(r.Body)
	for _, kw := range problemKeywords {
		if strings.Contains(title, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}
