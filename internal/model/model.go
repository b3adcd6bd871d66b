package model

import "time"

// Record 单条帖子记录，由记录窗口提供方（Reddit 客户端）拥有，核心只读
type Record struct {
	Title     string    `json:"title"`
	Subreddit string    `json:"subreddit"`
	Score     int       `json:"score"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
}

// AnalysisWindow 一次分析的记录窗口，构建后不可变
type AnalysisWindow struct {
	Start   time.Time
	End     time.Time
	Records []Record
}

// Empty 窗口内是否没有任何记录
func (w *AnalysisWindow) Empty() bool {
	return w == nil || len(w.Records) == 0
}

// Label 窗口的文字描述，用于报告标题
func (w *AnalysisWindow) Label() string {
	return w.Start.Format(time.DateOnly) + " ~ " + w.End.Format(time.DateOnly)
}

// Level 三档强度枚举
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// MarketSize 市场规模枚举
type MarketSize string

const (
	MarketSmall  MarketSize = "Small"
	MarketMedium MarketSize = "Medium"
	MarketLarge  MarketSize = "Large"
)

// TrendInsight 趋势洞察。推理路径与降级路径产出的字段约束一致，
// 下游（报告合成器）不需要区分来源。
type TrendInsight struct {
	Trend            string  `json:"trend"`
	GrowthPercentage float64 `json:"growth_percentage"`
	TimePeriod       string  `json:"time_period"`
	MarketAnalysis   string  `json:"market_analysis"`
	CompetitionLevel Level   `json:"competition_level"`
	EntryCost        Level   `json:"entry_cost"`
	Recommendation   string  `json:"recommendation"`
	Confidence       int     `json:"confidence"`
}

// ProblemInsight 痛点洞察
type ProblemInsight struct {
	Problem            string     `json:"problem"`
	Frequency          int        `json:"frequency"`
	Severity           Level      `json:"severity"`
	PotentialSolutions []string   `json:"potential_solutions"`
	MarketSize         MarketSize `json:"market_size"`
	Urgency            Level      `json:"urgency"`
}

// AnalysisReport 报告合成器的输入，每次调用重新生成
type AnalysisReport struct {
	WindowLabel string
	Days        int
	Trends      []TrendInsight
	Problems    []ProblemInsight
}
