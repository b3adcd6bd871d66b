// Package storage 负责报告运行记录与洞察的持久化。
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/model"
)

// ErrNotFound 查询目标不存在
var ErrNotFound = errors.New("storage: not found")

// Storage Postgres 存储
type Storage struct {
	db *sql.DB
}

// RunSummary 一次报告运行的摘要
type RunSummary struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	Days      int       `json:"days"`
	CreatedAt time.Time `json:"created_at"`
}

// Run 一次报告运行的完整内容
type Run struct {
	RunSummary
	ReportText string                 `json:"report_text"`
	Trends     []model.TrendInsight   `json:"trends"`
	Problems   []model.ProblemInsight `json:"problems"`
}

// NewStorage 建立连接并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS report_runs (
			id SERIAL PRIMARY KEY,
			window_label TEXT NOT NULL,
			days INT NOT NULL,
			report_text TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS trend_insights (
			id SERIAL PRIMARY KEY,
			run_id INT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			trend TEXT NOT NULL,
			growth_percentage DOUBLE PRECISION NOT NULL,
			time_period TEXT NOT NULL,
			market_analysis TEXT NOT NULL,
			competition_level TEXT NOT NULL,
			entry_cost TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			confidence INT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS problem_insights (
			id SERIAL PRIMARY KEY,
			run_id INT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			problem TEXT NOT NULL,
			frequency INT NOT NULL,
			severity TEXT NOT NULL,
			potential_solutions TEXT[] NOT NULL,
			market_size TEXT NOT NULL,
			urgency TEXT NOT NULL
		);
	`)
	return err
}

// Close 关闭连接
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveReport 在一个事务里保存运行记录与全部洞察，返回 run ID
func (s *Storage) SaveReport(ctx context.Context, rep *model.AnalysisReport, reportText string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	var runID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO report_runs (window_label, days, report_text) VALUES ($1, $2, $3) RETURNING id`,
		rep.WindowLabel, rep.Days, sanitizeText(reportText),
	).Scan(&runID)
	if err != nil {
		return 0, rollback(tx, err)
	}

	for _, t := range rep.Trends {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trend_insights
			 (run_id, trend, growth_percentage, time_period, market_analysis, competition_level, entry_cost, recommendation, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, sanitizeText(t.Trend), t.GrowthPercentage, t.TimePeriod,
			sanitizeText(t.MarketAnalysis), string(t.CompetitionLevel), string(t.EntryCost),
			sanitizeText(t.Recommendation), t.Confidence,
		)
		if err != nil {
			return 0, rollback(tx, err)
		}
	}

	for _, p := range rep.Problems {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO problem_insights
			 (run_id, problem, frequency, severity, potential_solutions, market_size, urgency)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			runID, sanitizeText(p.Problem), p.Frequency, string(p.Severity),
			pq.Array(p.PotentialSolutions), string(p.MarketSize), string(p.Urgency),
		)
		if err != nil {
			return 0, rollback(tx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns 按时间倒序分页列出运行摘要
func (s *Storage) ListRuns(ctx context.Context, limit, offset int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, window_label, days, created_at FROM report_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Label, &r.Days, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun 读取一次运行的完整内容
func (s *Storage) GetRun(ctx context.Context, id int) (*Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, window_label, days, report_text, created_at FROM report_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Label, &run.Days, &run.ReportText, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	trows, err := s.db.QueryContext(ctx,
		`SELECT trend, growth_percentage, time_period, market_analysis, competition_level, entry_cost, recommendation, confidence
		 FROM trend_insights WHERE run_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.TrendInsight
		if err := trows.Scan(&t.Trend, &t.GrowthPercentage, &t.TimePeriod, &t.MarketAnalysis,
			&t.CompetitionLevel, &t.EntryCost, &t.Recommendation, &t.Confidence); err != nil {
			return nil, err
		}
		run.Trends = append(run.Trends, t)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT problem, frequency, severity, potential_solutions, market_size, urgency
		 FROM problem_insights WHERE run_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p model.ProblemInsight
		var solutions pq.StringArray
		if err := prows.Scan(&p.Problem, &p.Frequency, &p.Severity, &solutions, &p.MarketSize, &p.Urgency); err != nil {
			return nil, err
		}
		p.PotentialSolutions = solutions
		run.Problems = append(run.Problems, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	return &run, nil
}

func rollback(tx *sql.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// sanitizeText 移除 PostgreSQL 文本字段不支持的 NULL 字节与无效 UTF-8
func sanitizeText(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r == utf8.RuneError {
				continue
			}
			v = append(v, r)
		}
		s = string(v)
	}
	return strings.ReplaceAll(s, "\x00", "")
}
