// Package report 负责把两条分析路径合并后的洞察渲染成统一的文字报告。
// 渲染是纯函数，不关心洞察来自推理路径还是降级路径。
package report

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/insight_radar/internal/model"
)

// Render 按固定模板渲染报告：标题、趋势块（非空才输出）、
// 痛点块（非空才输出）、页脚。两块都为空时输出单句"未发现"说明。
func Render(windowLabel string, trends []model.TrendInsight, problems []model.ProblemInsight) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Insight Report: %s ===\n", windowLabel)

	if len(trends) == 0 && len(problems) == 0 {
		sb.WriteString("\nAnalysis found no significant trends or problems in this window.\n")
	} else {
		if len(trends) > 0 {
			sb.WriteString("\nTrends:\n")
			for i, t := range trends {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, t.Trend)
				fmt.Fprintf(&sb, "   Growth: %.0f%% over %s\n", t.GrowthPercentage, t.TimePeriod)
				fmt.Fprintf(&sb, "   Market: %s\n", t.MarketAnalysis)
				fmt.Fprintf(&sb, "   Competition: %s | Entry cost: %s\n", t.CompetitionLevel, t.EntryCost)
				fmt.Fprintf(&sb, "   Recommendation: %s\n", t.Recommendation)
				fmt.Fprintf(&sb, "   Confidence: %d/100\n", t.Confidence)
			}
		}

		if len(problems) > 0 {
			sb.WriteString("\nProblems:\n")
			for i, p := range problems {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, p.Problem)
				fmt.Fprintf(&sb, "   Frequency: %d | Severity: %s\n", p.Frequency, p.Severity)
				fmt.Fprintf(&sb, "   Market size: %s | Urgency: %s\n", p.MarketSize, p.Urgency)
				fmt.Fprintf(&sb, "   Potential solutions: %s\n", strings.Join(p.PotentialSolutions, ", "))
			}
		}
	}

	sb.WriteString("\n--- end of report ---\n")
	return sb.String()
}
