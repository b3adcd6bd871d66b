package parse

import (
	"testing"

	"github.com/iWorld-y/insight_radar/internal/model"
)

func TestTrendInsights_PlainJSON(t *testing.T) {
	raw := `[{"trend":"AI agents","growth_percentage":42,"confidence":80}]`
	got := TrendInsights(raw)
	if len(got) != 1 {
		t.Fatalf("TrendInsights() len = %d, want 1", len(got))
	}
	if got[0].Trend != "AI agents" || got[0].GrowthPercentage != 42 || got[0].Confidence != 80 {
		t.Errorf("TrendInsights()[0] = %+v", got[0])
	}
	// 未出现的字段取零值
	if got[0].CompetitionLevel != "" {
		t.Errorf("CompetitionLevel = %q, want empty", got[0].CompetitionLevel)
	}
}

func TestTrendInsights_CodeFenced(t *testing.T) {
	raw := "```json\n[{\"trend\":\"remote tooling\"}]\n```"
	got := TrendInsights(raw)
	if len(got) != 1 || got[0].Trend != "remote tooling" {
		t.Errorf("TrendInsights() = %+v, want single fenced insight", got)
	}
}

func TestTrendInsights_Total(t *testing.T) {
	// 全函数性质：任何输入都不 panic、不返回错误，只会得到空序列
	cases := []string{
		"",
		"not json at all",
		`{"trend":"object not array"}`,
		`42`,
		"```json\ngarbage\n```",
	}
	for _, raw := range cases {
		if got := TrendInsights(raw); len(got) != 0 {
			t.Errorf("TrendInsights(%q) = %v, want empty", raw, got)
		}
	}
}

func TestProblemInsights_CodeFenced(t *testing.T) {
	raw := "```json\n[{\"problem\":\"onboarding friction\",\"frequency\":12,\"severity\":\"High\",\"potential_solutions\":[\"guided setup\"]}]\n```"
	got := ProblemInsights(raw)
	if len(got) != 1 {
		t.Fatalf("ProblemInsights() len = %d, want 1", len(got))
	}
	p := got[0]
	if p.Problem != "onboarding friction" || p.Frequency != 12 || p.Severity != model.LevelHigh {
		t.Errorf("ProblemInsights()[0] = %+v", p)
	}
	if len(p.PotentialSolutions) != 1 || p.PotentialSolutions[0] != "guided setup" {
		t.Errorf("PotentialSolutions = %v", p.PotentialSolutions)
	}
}

func TestProblemInsights_NonSequence(t *testing.T) {
	if got := ProblemInsights(`{"problem":"single object"}`); len(got) != 0 {
		t.Errorf("ProblemInsights(object) = %v, want empty", got)
	}
}
