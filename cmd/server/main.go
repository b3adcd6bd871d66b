package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/insight_radar/internal/breaker"
	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/engine"
	"github.com/iWorld-y/insight_radar/internal/llm"
	"github.com/iWorld-y/insight_radar/internal/logger"
	"github.com/iWorld-y/insight_radar/internal/reddit"
	"github.com/iWorld-y/insight_radar/internal/retry"
	"github.com/iWorld-y/insight_radar/internal/server"
	"github.com/iWorld-y/insight_radar/internal/service"
	"github.com/iWorld-y/insight_radar/internal/storage"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "insight-radar"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(flagconf)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatal(err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		stdlog.Fatalf("无法初始化日志: %v", err)
	}

	// kratos 侧日志，带服务上下文
	klogger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	ctx := context.Background()

	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 历史查询接口将不可用。", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	cache, err := reddit.NewPageCache(cfg.Redis)
	if err != nil {
		logger.Log.Errorf("无法连接 Redis: %v. 将直连列表 API。", err)
	} else if cache != nil {
		defer cache.Close()
	}

	llmClient, err := llm.NewClient(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}

	eng := engine.New(
		reddit.NewClient(cfg.Reddit, cache),
		llmClient,
		breaker.New(cfg.Breaker.Cooldown()),
		retry.NewExecutor(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay()),
		store,
	)

	svc := service.NewInsightService(eng, store, klogger)
	hs := server.NewHTTPServer(cfg.Server, svc, klogger)

	// 定时生成报告（可选）
	if cfg.Schedule != "" {
		c := cron.New()
		days := service.ClampDays(cfg.Analysis.DefaultDays)
		if _, err := c.AddFunc(cfg.Schedule, func() {
			if _, err := eng.GenerateReport(context.Background(), days); err != nil {
				logger.Log.Errorf("定时报告生成失败: %v", err)
			}
		}); err != nil {
			logger.Log.Fatalf("无效的 cron 表达式 %q: %v", cfg.Schedule, err)
		}
		c.Start()
		defer c.Stop()
		logger.Log.Infof("定时任务已注册: %s", cfg.Schedule)
	}

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(klogger),
		kratos.Server(hs),
	)

	if err := app.Run(); err != nil {
		panic(err)
	}
}
