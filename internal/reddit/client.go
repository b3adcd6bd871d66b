// Package reddit 实现记录窗口提供方：按 subreddit 拉取最近帖子，
// 内部翻页直到越过时间窗口下界，客户端再按 createdAt ≥ cutoff 过滤一次。
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/logger"
	dm "github.com/iWorld-y/insight_radar/internal/model"
)

const (
	defaultBaseURL = "https://www.reddit.com"
	// bodyByteLimit 单条记录正文的字节上限
	bodyByteLimit = 5000
)

// Client Reddit 列表 API 客户端
type Client struct {
	baseURL   string
	subs      []string
	userAgent string
	pageSize  int
	maxPages  int
	enrich    bool
	client    *http.Client
	cache     *PageCache
	now       func() time.Time
}

// NewClient 创建客户端。cache 可为 nil（未配置 Redis 时禁用缓存）。
func NewClient(cfg config.RedditConfig, cache *PageCache) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "insight-radar/1.0"
	}

	return &Client{
		baseURL:   defaultBaseURL,
		subs:      cfg.Subreddits,
		userAgent: userAgent,
		pageSize:  pageSize,
		maxPages:  maxPages,
		enrich:    cfg.EnrichBodies,
		client:    http.DefaultClient,
		cache:     cache,
		now:       time.Now,
	}
}

// listing Reddit 列表响应
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// post 单条帖子
type post struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
	IsSelf      bool    `json:"is_self"`
}

// FetchWindow 拉取最近 days 天的记录窗口。提供方失败原样上抛给调用者，
// 这条路径没有降级。
func (c *Client) FetchWindow(ctx context.Context, days int) (*dm.AnalysisWindow, error) {
	end := c.now()
	start := end.AddDate(0, 0, -days)

	window := &dm.AnalysisWindow{Start: start, End: end}

	for _, sub := range c.subs {
		records, err := c.fetchSubreddit(ctx, sub, start)
		if err != nil {
			return nil, fmt.Errorf("拉取 r/%s 失败: %w", sub, err)
		}
		window.Records = append(window.Records, records...)
	}

	logger.Log.Infof("窗口 [%s] 共 %d 条记录", window.Label(), len(window.Records))
	return window, nil
}

// fetchSubreddit 翻页拉取单个 subreddit，直到页内最旧帖子早于 cutoff
func (c *Client) fetchSubreddit(ctx context.Context, sub string, cutoff time.Time) ([]dm.Record, error) {
	var records []dm.Record
	after := ""

	for page := 0; page < c.maxPages; page++ {
		lst, err := c.fetchPage(ctx, sub, after)
		if err != nil {
			return nil, err
		}
		if len(lst.Data.Children) == 0 {
			break
		}

		pastCutoff := false
		for _, child := range lst.Data.Children {
			created := time.Unix(int64(child.Data.CreatedUTC), 0).UTC()
			if created.Before(cutoff) {
				pastCutoff = true
				continue
			}
			records = append(records, c.toRecord(child.Data, created))
		}

		if pastCutoff || lst.Data.After == "" {
			break
		}
		after = lst.Data.After
	}

	return records, nil
}

// fetchPage 拉取一页列表，命中缓存时不发请求
func (c *Client) fetchPage(ctx context.Context, sub, after string) (*listing, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", c.pageSize))
	if after != "" {
		q.Set("after", after)
	}
	pageURL := fmt.Sprintf("%s/r/%s/new.json?%s", c.baseURL, sub, q.Encode())

	var body []byte
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, pageURL); ok {
			body = cached
		}
	}

	if body == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request failed: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		res, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer res.Body.Close()

		body, err = io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("read body failed: %w", err)
		}
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("reddit api error (status %d): %s", res.StatusCode, string(body))
		}

		if c.cache != nil {
			c.cache.Set(ctx, pageURL, body)
		}
	}

	var lst listing
	if err := json.Unmarshal(body, &lst); err != nil {
		return nil, fmt.Errorf("unmarshal listing failed: %w", err)
	}
	return &lst, nil
}

// toRecord 投影为领域记录，外链帖可选抓取正文
func (c *Client) toRecord(p post, created time.Time) dm.Record {
	body := p.Selftext
	if body == "" && c.enrich && !p.IsSelf && p.URL != "" {
		if fetched, err := fetchAndCleanContent(p.URL); err == nil {
			body = fetched
		}
	}
	if len(body) > bodyByteLimit {
		body = truncateRunes(body, bodyByteLimit)
	}

	return dm.Record{
		Title:     p.Title,
		Subreddit: p.Subreddit,
		Score:     p.Score,
		Comments:  p.NumComments,
		CreatedAt: created,
		Body:      body,
	}
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(u string) (string, error) {
	article, err := readability.FromURL(u, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// truncateRunes 按字节上限截断，回退到 rune 边界，保证结果仍是合法 UTF-8
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
