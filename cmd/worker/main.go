package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/database"
	"github.com/qs3c/repurpose_server/internal/pkg/email"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/pkg/queue"
	"github.com/qs3c/repurpose_server/internal/worker"
)

var configPath = flag.String("config", "config.yaml", "Path to config file")

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.ForMode(cfg.Server.Mode)

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logger.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	logger.Info("redis connected")

	mailer := email.NewService(&cfg.Email)
	if !mailer.Enabled() {
		logger.Warn("smtp not configured, notifications will be dropped")
	}

	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	processor := worker.NewProcessor(mailer, jobQueue, logger)

	// 创建 context 用于优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started", "max_workers", cfg.Queue.MaxWorkers, "queue", cfg.Queue.NotificationQueue)
	processor.Run(ctx, cfg.Queue.MaxWorkers, 5*time.Second)
	logger.Info("worker shutdown complete")
}
