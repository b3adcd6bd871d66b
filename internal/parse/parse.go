package parse

import (
	"encoding/json"
	"strings"

	"github.com/iWorld-y/insight_radar/internal/logger"
	"github.com/iWorld-y/insight_radar/internal/model"
)

// 本包容忍上游 LLM 的松散输出：只要求顶层是一个 JSON 数组，
// 不做逐字段校验，缺失字段取零值。这是继承自上游边界的显式风险，
// 下游必须容忍可选字段缺失，而不是在这里静默修正。

// TrendInsights 把原始文本解析为趋势洞察序列。解析是全函数：
// 无法解码或顶层不是数组时返回空序列，错误不越过本边界。
func TrendInsights(raw string) []model.TrendInsight {
	data := stripFences(raw)

	var insights []model.TrendInsight
	if err := json.Unmarshal([]byte(data), &insights); err != nil {
		logger.Log.Warnf("趋势洞察响应格式异常，按空结果处理: %v", err)
		return nil
	}
	return insights
}

// ProblemInsights 把原始文本解析为痛点洞察序列，失败语义同 TrendInsights
func ProblemInsights(raw string) []model.ProblemInsight {
	data := stripFences(raw)

	var insights []model.ProblemInsight
	if err := json.Unmarshal([]byte(data), &insights); err != nil {
		logger.Log.Warnf("痛点洞察响应格式异常，按空结果处理: %v", err)
		return nil
	}
	return insights
}

// stripFences 去掉可选的 markdown 代码围栏，保留内部内容
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
