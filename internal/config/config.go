package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Reddit      RedditConfig      `yaml:"reddit"`
	Redis       RedisConfig       `yaml:"redis"`
	DB          DBConfig          `yaml:"db"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Retry       RetryConfig       `yaml:"retry"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	// Schedule 定时生成报告的 cron 表达式，留空则不启用
	Schedule string `yaml:"schedule"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// RedditConfig 记录窗口提供方（Reddit）相关配置
type RedditConfig struct {
	Subreddits []string `yaml:"subreddits"`
	UserAgent  string   `yaml:"user_agent"`
	PageSize   int      `yaml:"page_size"`
	MaxPages   int      `yaml:"max_pages"`
	// EnrichBodies 对正文为空的外链帖子抓取正文
	EnrichBodies bool `yaml:"enrich_bodies"`
}

// RedisConfig 列表页缓存配置，Addr 留空则禁用缓存
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl_seconds"`
}

// DBConfig 数据库相关配置，Host 留空则不持久化
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig HTTP 服务相关配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	CooldownSeconds int `yaml:"cooldown_seconds"`
}

// Cooldown 熔断冷却时长，默认 5 分钟
func (c BreakerConfig) Cooldown() time.Duration {
	if c.CooldownSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CooldownSeconds) * time.Second
}

// RetryConfig 重试配置
type RetryConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	BaseDelayMilli int `yaml:"base_delay_ms"`
}

// BaseDelay 首次重试等待时长，默认 2 秒
func (c RetryConfig) BaseDelay() time.Duration {
	if c.BaseDelayMilli <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.BaseDelayMilli) * time.Millisecond
}

// AnalysisConfig 分析窗口配置
type AnalysisConfig struct {
	// DefaultDays 默认回溯天数
	DefaultDays int `yaml:"default_days"`
	// MaxRecords 单次送入 LLM 的记录上限
	MaxRecords int `yaml:"max_records"`
}

// Load 从指定路径加载配置，环境变量可覆盖敏感项
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 密钥优先取环境变量，避免写入配置文件
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}

	return &cfg, nil
}

// Validate 校验启动必需项。LLM 凭证缺失属于配置错误，启动即失败，
// 不进入运行时降级路径。
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("配置错误: 未设置 llm.api_key (或环境变量 LLM_API_KEY)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("配置错误: 未设置 llm.model")
	}
	if len(c.Reddit.Subreddits) == 0 {
		return fmt.Errorf("配置错误: 未设置 reddit.subreddits")
	}
	return nil
}
