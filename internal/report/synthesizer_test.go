package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iWorld-y/insight_radar/internal/model"
)

func TestRender_EmptyCollections(t *testing.T) {
	got := Render("2025-05-25 ~ 2025-06-01", nil, nil)

	if !strings.Contains(got, "no significant trends or problems") {
		t.Errorf("Render() missing nothing-found sentence: %q", got)
	}
	if strings.Contains(got, "1.") {
		t.Errorf("Render() contains numbered list for empty input: %q", got)
	}
	if !strings.Contains(got, "2025-05-25 ~ 2025-06-01") {
		t.Errorf("Render() missing window label: %q", got)
	}
}

func TestRender_TrendsAndProblems(t *testing.T) {
	trends := []model.TrendInsight{{
		Trend:            "Rising discussion volume in r/saas",
		GrowthPercentage: 67,
		TimePeriod:       "30 days",
		MarketAnalysis:   "r/saas accounts for 2 of 3 recent posts",
		CompetitionLevel: model.LevelMedium,
		EntryCost:        model.LevelLow,
		Recommendation:   "Validate demand",
		Confidence:       60,
	}}
	problems := []model.ProblemInsight{{
		Problem:            "Users repeatedly describe unresolved problems",
		Frequency:          15,
		Severity:           model.LevelHigh,
		PotentialSolutions: []string{"build a tool", "offer a service"},
		MarketSize:         model.MarketLarge,
		Urgency:            model.LevelHigh,
	}}

	got := Render("last 7 days", trends, problems)

	for _, want := range []string{
		"Trends:",
		"1. Rising discussion volume in r/saas",
		"Growth: 67% over 30 days",
		"Competition: Medium | Entry cost: Low",
		"Confidence: 60/100",
		"Problems:",
		"Frequency: 15 | Severity: High",
		"Market size: Large | Urgency: High",
		"build a tool, offer a service",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "no significant trends or problems") {
		t.Error("Render() contains nothing-found sentence for non-empty input")
	}
}

func TestRender_TrendsOnly(t *testing.T) {
	trends := []model.TrendInsight{{Trend: "solo trend", TimePeriod: "30 days"}}
	got := Render("window", trends, nil)
	if !strings.Contains(got, "Trends:") || strings.Contains(got, "Problems:") {
		t.Errorf("Render() blocks wrong for trends-only input:\n%s", got)
	}
}

func TestRenderHTML(t *testing.T) {
	rep := &model.AnalysisReport{
		WindowLabel: "2025-05-25 ~ 2025-06-01",
		Trends: []model.TrendInsight{{
			Trend:            "Rising discussion volume in r/saas",
			GrowthPercentage: 67,
			TimePeriod:       "30 days",
			CompetitionLevel: model.LevelMedium,
			EntryCost:        model.LevelLow,
			Confidence:       60,
		}},
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, rep); err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Rising discussion volume in r/saas") {
		t.Errorf("RenderHTML() missing trend title:\n%s", html)
	}
	if !strings.Contains(html, "2025-05-25 ~ 2025-06-01") {
		t.Error("RenderHTML() missing window label")
	}
}
