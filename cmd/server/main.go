package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/api"
	"github.com/qs3c/repurpose_server/internal/api/handler"
	"github.com/qs3c/repurpose_server/internal/database"
	"github.com/qs3c/repurpose_server/internal/pkg/cron"
	"github.com/qs3c/repurpose_server/internal/pkg/extractor"
	"github.com/qs3c/repurpose_server/internal/pkg/llm"
	"github.com/qs3c/repurpose_server/internal/pkg/logging"
	"github.com/qs3c/repurpose_server/internal/pkg/oauth"
	"github.com/qs3c/repurpose_server/internal/pkg/oss"
	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
	"github.com/qs3c/repurpose_server/internal/pkg/queue"
	"github.com/qs3c/repurpose_server/internal/pkg/razorpay"
	"github.com/qs3c/repurpose_server/internal/pkg/repurpose"
	"github.com/qs3c/repurpose_server/internal/pkg/twitter"
	"github.com/qs3c/repurpose_server/internal/pkg/ws"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/service"
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
	fatal := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	if cfg.JWT.Secret == "" {
		fatal("jwt secret is required", errors.New("set jwt.secret or SESSION_SECRET"))
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		fatal("failed to connect database", err)
	}
	if err := database.Migrate(db); err != nil {
		fatal("failed to migrate database", err)
	}
	logger.Info("database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		fatal("failed to connect redis", err)
	}
	logger.Info("redis connected")

	// 初始化 Queue 和 Pub/Sub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)
	states := oauth.NewStateStore(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub(logger)

	// 初始化外部依赖
	contentExtractor := extractor.New(extractor.Config{
		UserAgent:           cfg.Extractor.UserAgent,
		Timeout:             time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second,
		Language:            cfg.Extractor.TranscriptLanguage,
		MinTranscriptLength: cfg.Extractor.MinTranscriptLength,
		MinScrapeLength:     cfg.Extractor.MinScrapeLength,
		MaxScrapeLength:     cfg.Extractor.MaxScrapeLength,
	},
		extractor.WithTranscriptFetcher(extractor.NewYouTubeFetcher(&youtube.Client{})),
		extractor.WithLogger(logger),
	)

	if cfg.LLM.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, generation requests will fail")
	}
	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		RetryAttempts:  cfg.LLM.RetryAttempts,
	})
	generator := repurpose.NewGenerator(llmClient, logger)

	// 支付网关（可选）
	var gateway razorpay.Gateway
	if cfg.Payment.RazorpayKeyID != "" && cfg.Payment.RazorpayKeySecret != "" {
		gateway = razorpay.NewClient(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
		logger.Info("razorpay gateway initialized")
	}

	// OSS（可选），用于历史导出
	var exportStore service.ExportStore
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			logger.Warn("failed to init oss client", "error", err)
		} else {
			exportStore = ossClient
			logger.Info("oss client initialized")
		}
	}

	githubOAuth := oauth.NewGithubOAuth(cfg.OAuth.Github.ClientID, cfg.OAuth.Github.ClientSecret, cfg.OAuth.Github.RedirectURI)
	twitterOAuth := oauth.NewTwitterOAuth(cfg.OAuth.Twitter.ClientID, cfg.OAuth.Twitter.ClientSecret, cfg.OAuth.Twitter.RedirectURI, cfg.OAuth.Twitter.Scopes)
	twitterClient := twitter.NewClient(cfg.OAuth.Twitter.APIBaseURL, nil)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	linkedRepo := repository.NewLinkedAccountRepository(db)

	// 初始化 Service
	creditService := service.NewCreditService(userRepo, creditRepo, publisher, logger)
	authService := service.NewAuthService(userRepo, cfg, githubOAuth, states, jobQueue, logger)
	userService := service.NewUserService(userRepo, linkedRepo)
	generationService := service.NewGenerationService(
		generationRepo,
		creditService,
		contentExtractor,
		generator,
		exportStore,
		service.GenerationConfig{
			MinContentLength: cfg.Extractor.MinContentLength,
			GenerateTimeout:  time.Duration(cfg.LLM.GenerateTimeoutSecs) * time.Second,
		},
		logger,
	)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, creditService, gateway, jobQueue, cfg, logger)
	integrationService := service.NewIntegrationService(linkedRepo, twitterOAuth, twitterClient, states, logger)

	// 初始化 Router
	router := api.NewRouter(api.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.Server.PublicURL),
		Settings:    handler.NewSettingsHandler(userService),
		Credits:     handler.NewCreditsHandler(creditService),
		Options:     handler.NewOptionsHandler(cfg),
		Generation:  handler.NewGenerationHandler(generationService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Integration: handler.NewIntegrationHandler(integrationService, cfg.Server.PublicURL),
		WebSocket:   handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins, logger),
	}, creditService, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 积分变动经 Redis 广播，任意实例都能推送给自己持有的连接
	go func() {
		if err := subscriber.Subscribe(ctx, wsHub.ForwardCredits); err != nil && ctx.Err() == nil {
			logger.Error("credit subscription stopped", "error", err)
		}
	}()

	// 定时清理过期订单
	cronService := cron.NewService(paymentService, cfg.Cron.PaymentSweepMinutes, logger)
	cronService.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	cronService.Stop()
	_ = rdb.Close()
	logger.Info("server stopped")
}
