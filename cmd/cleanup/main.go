package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/database"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/service"
)

var (
	dryRun     = flag.Bool("dry-run", true, "Dry run mode, only count stale orders")
	expireMins = flag.Int("expire-mins", 0, "Minutes before a pending order counts as stale (0 = use config)")
)

func main() {
	flag.Parse()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *expireMins > 0 {
		cfg.Payment.PendingExpireMins = *expireMins
	}

	logger := logging.ForMode(cfg.Server.Mode)
	logger.Info("starting cleanup task", "dry_run", *dryRun, "expire_mins", cfg.Payment.PendingExpireMins)

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	// 只用到订单清理，不需要网关和通知
	paymentService := service.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		nil,
		nil,
		nil,
		cfg,
		logger,
	)

	ctx := context.Background()
	var n int64
	if *dryRun {
		n, err = paymentService.CountStale(ctx)
	} else {
		n, err = paymentService.ExpireStale(ctx)
	}
	if err != nil {
		logger.Error("cleanup failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	if *dryRun {
		fmt.Printf("Stale pending orders: %d\n", n)
		fmt.Println("DRY RUN MODE - nothing was changed")
		fmt.Println("Run with -dry-run=false to mark them expired")
	} else {
		fmt.Printf("Expired pending orders: %d\n", n)
	}
	fmt.Println(strings.Repeat("=", 60))
}
