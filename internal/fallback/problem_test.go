package fallback

import (
	"testing"

	"github.com/iWorld-y/insight_radar/internal/model"
)

func TestProblems_KeywordScenario(t *testing.T) {
	// 20 条记录中 15 条命中痛点关键词
	var records []model.Record
	for i := 0; i < 15; i++ {
		r := rec("saas", 50, 10)
		r.Title = "this tool is broken and I need help"
		records = append(records, r)
	}
	for i := 0; i < 5; i++ {
		r := rec("saas", 50, 10)
		r.Title = "weekly showcase thread"
		records = append(records, r)
	}

	got := Problems(records)
	if len(got) != 1 {
		t.Fatalf("Problems() len = %d, want 1", len(got))
	}
	if got[0].Frequency != 15 {
		t.Errorf("Frequency = %d, want 15", got[0].Frequency)
	}
	if got[0].Severity != model.LevelHigh {
		t.Errorf("Severity = %q, want High", got[0].Severity)
	}
	if len(got[0].PotentialSolutions) == 0 {
		t.Error("PotentialSolutions is empty, want non-empty")
	}
	if got[0].MarketSize != model.MarketLarge || got[0].Urgency != model.LevelHigh {
		t.Errorf("insight = %+v", got[0])
	}
}

func TestProblems_MediumSeverity(t *testing.T) {
	var records []model.Record
	for i := 0; i < 5; i++ {
		r := rec("saas", 50, 10)
		r.Body = "I struggle with this every day"
		records = append(records, r)
	}
	got := Problems(records)
	if len(got) != 1 || got[0].Severity != model.LevelMedium {
		t.Errorf("Problems() = %+v, want one Medium insight (frequency <= 10)", got)
	}
}

func TestProblems_LowEngagement(t *testing.T) {
	// 10 条记录，4 条低互动（>30%），无关键词命中
	var records []model.Record
	for i := 0; i < 4; i++ {
		r := rec("saas", 1, 0)
		r.Title = "quiet post"
		records = append(records, r)
	}
	for i := 0; i < 6; i++ {
		r := rec("saas", 80, 20)
		r.Title = "popular post"
		records = append(records, r)
	}

	got := Problems(records)
	if len(got) != 1 {
		t.Fatalf("Problems() len = %d, want 1 (low engagement only)", len(got))
	}
	p := got[0]
	if p.Frequency != 4 || p.Severity != model.LevelMedium || p.MarketSize != model.MarketMedium || p.Urgency != model.LevelMedium {
		t.Errorf("low-engagement insight = %+v", p)
	}
}

func TestProblems_BothChecksIndependent(t *testing.T) {
	// 关键词命中 + 低互动占比超 30%，两条洞察都应产出
	var records []model.Record
	for i := 0; i < 4; i++ {
		r := rec("saas", 1, 0)
		r.Title = "annoying bug, please fix"
		records = append(records, r)
	}
	for i := 0; i < 3; i++ {
		records = append(records, rec("saas", 90, 15))
	}

	got := Problems(records)
	if len(got) != 2 {
		t.Fatalf("Problems() len = %d, want 2", len(got))
	}
}

func TestProblems_CaseInsensitive(t *testing.T) {
	r := rec("saas", 50, 10)
	r.Title = "FRUSTRATED with current options"
	got := Problems([]model.Record{r})
	if len(got) != 1 || got[0].Frequency != 1 {
		t.Errorf("Problems() = %+v, want one match (case-insensitive)", got)
	}
}

func TestProblems_Empty(t *testing.T) {
	if got := Problems(nil); len(got) != 0 {
		t.Errorf("Problems(nil) = %v, want empty", got)
	}
}
