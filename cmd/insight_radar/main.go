package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/insight_radar/internal/breaker"
	"github.com/iWorld-y/insight_radar/internal/config"
	"github.com/iWorld-y/insight_radar/internal/engine"
	"github.com/iWorld-y/insight_radar/internal/llm"
	"github.com/iWorld-y/insight_radar/internal/logger"
	"github.com/iWorld-y/insight_radar/internal/model"
	"github.com/iWorld-y/insight_radar/internal/reddit"
	"github.com/iWorld-y/insight_radar/internal/report"
	"github.com/iWorld-y/insight_radar/internal/retry"
	"github.com/iWorld-y/insight_radar/internal/storage"
)

func main() {
	var (
		flagconf string
		flagdays int
		flaghtml string
	)
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.IntVar(&flagdays, "days", 0, "analysis window in days (0 = config default)")
	flag.StringVar(&flaghtml, "html", "output/index.html", "html output path, empty to skip")
	flag.Parse()

	// 本地开发用 .env 覆盖密钥，文件不存在不算错
	_ = godotenv.Load()

	// 1. 加载并校验配置
	cfg, err := config.Load(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动洞察雷达...")

	ctx := context.Background()

	// 3. 初始化数据库连接（可选）
	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅输出报告文件。", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 4. 初始化页缓存（可选）
	cache, err := reddit.NewPageCache(cfg.Redis)
	if err != nil {
		logger.Log.Errorf("无法连接 Redis: %v. 将直连列表 API。", err)
	} else if cache != nil {
		defer cache.Close()
	}

	// 5. 初始化推理客户端与流水线
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

	days := flagdays
	if days <= 0 {
		days = cfg.Analysis.DefaultDays
	}
	if days <= 0 {
		days = 7
	}

	// 6. 生成报告
	rep, text, err := eng.Generate(ctx, days)
	if err != nil {
		logger.Log.Fatalf("生成报告失败: %v", err)
	}
	fmt.Println(text)

	// 7. 写出 HTML 早报
	if flaghtml != "" {
		if err := writeHTML(flaghtml, rep); err != nil {
			logger.Log.Fatalf("生成 HTML 失败: %v", err)
		}
		logger.Log.Infof("✅ 洞察雷达报告生成完毕: %s", flaghtml)
	}
}

func writeHTML(path string, rep *model.AnalysisReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return report.RenderHTML(f, rep)
}
