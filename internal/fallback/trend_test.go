package fallback

import (
	"reflect"
	"testing"
	"time"

	"github.com/iWorld-y/insight_radar/internal/model"
)

func rec(sub string, score, comments int) model.Record {
	return model.Record{
		Title:     "post in " + sub,
		Subreddit: sub,
		Score:     score,
		Comments:  comments,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTrends_TopGroupAndHighEngagement(t *testing.T) {
	// 3 条记录，2 条 saas、1 条 startups，平均分 150
	records := []model.Record{
		rec("saas", 200, 10),
		rec("startups", 100, 5),
		rec("saas", 150, 8),
	}

	got := Trends(records)
	if len(got) != 2 {
		t.Fatalf("Trends() len = %d, want 2", len(got))
	}

	if got[0].GrowthPercentage != 67 {
		t.Errorf("top-group growth = %v, want 67", got[0].GrowthPercentage)
	}
	if got[0].Confidence != 60 || got[0].CompetitionLevel != model.LevelMedium || got[0].EntryCost != model.LevelLow {
		t.Errorf("top-group insight = %+v", got[0])
	}
	if got[0].TimePeriod != "30 days" {
		t.Errorf("TimePeriod = %q, want %q", got[0].TimePeriod, "30 days")
	}

	if got[1].GrowthPercentage != 15 {
		t.Errorf("high-engagement growth = %v, want 15", got[1].GrowthPercentage)
	}
	if got[1].Confidence != 70 || got[1].CompetitionLevel != model.LevelHigh || got[1].EntryCost != model.LevelMedium {
		t.Errorf("high-engagement insight = %+v", got[1])
	}
}

func TestTrends_NoHighEngagement(t *testing.T) {
	records := []model.Record{
		rec("saas", 10, 1),
		rec("saas", 20, 2),
	}
	got := Trends(records)
	if len(got) != 1 {
		t.Fatalf("Trends() len = %d, want 1 (mean score <= 100)", len(got))
	}
	if got[0].GrowthPercentage != 100 {
		t.Errorf("growth = %v, want 100", got[0].GrowthPercentage)
	}
}

func TestTrends_Empty(t *testing.T) {
	if got := Trends(nil); len(got) != 0 {
		t.Errorf("Trends(nil) = %v, want empty", got)
	}
}

func TestTrends_Deterministic(t *testing.T) {
	records := []model.Record{
		rec("golang", 300, 20),
		rec("rust", 250, 12),
		rec("golang", 80, 4),
	}
	first := Trends(records)
	for i := 0; i < 5; i++ {
		if again := Trends(records); !reflect.DeepEqual(first, again) {
			t.Fatalf("Trends() not deterministic: %+v != %+v", first, again)
		}
	}
}

func TestTrends_TieBrokenByEncounterOrder(t *testing.T) {
	records := []model.Record{
		rec("beta", 1, 1),
		rec("alpha", 1, 1),
	}
	got := Trends(records)
	if len(got) == 0 {
		t.Fatal("Trends() returned empty")
	}
	// beta 先出现，计数打平时应排在前
	if got[0].Trend != "Rising discussion volume in r/beta" {
		t.Errorf("top trend = %q, want beta first on tie", got[0].Trend)
	}
}
