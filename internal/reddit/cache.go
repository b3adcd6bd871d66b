package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/logger"
)

// PageCache 列表页的 Redis 缓存，减轻对限流的列表 API 的压力。
// 缓存失败只降级为直连，不影响主流程。
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPageCache 创建页缓存。Addr 为空返回 nil，调用方按无缓存处理。
func NewPageCache(cfg config.RedisConfig) (*PageCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &PageCache{rdb: rdb, ttl: ttl}, nil
}

func cacheKey(pageURL string) string {
	return "reddit_page:" + pageURL
}

// Get 读缓存，未命中或出错返回 false
func (c *PageCache) Get(ctx context.Context, pageURL string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, cacheKey(pageURL)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warnf("读取页缓存失败: %v", err)
		}
		return nil, false
	}
	return val, true
}

// Set 写缓存，出错只记日志
func (c *PageCache) Set(ctx context.Context, pageURL string, body []byte) {
	if err := c.rdb.Set(ctx, cacheKey(pageURL), body, c.ttl).Err(); err != nil {
		logger.Log.Warnf("写入页缓存失败: %v", err)
	}
}

// Close 关闭底层连接
func (c *PageCache) Close() error {
	return c.rdb.Close()
}
