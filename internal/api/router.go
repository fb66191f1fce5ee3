package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/api/handler"
	"github.com/qs3c/repurpose_server/internal/api/middleware"
)

// Handlers 路由依赖的全部 handler
type Handlers struct {
	Auth        *handler.AuthHandler
	Settings    *handler.SettingsHandler
	Credits     *handler.CreditsHandler
	Options     *handler.OptionsHandler
	Generation  *handler.GenerationHandler
	Payment     *handler.PaymentHandler
	Integration *handler.IntegrationHandler
	WebSocket   *handler.WebSocketHandler
}

type Router struct {
	handlers Handlers
	credits  middleware.BalanceChecker
	cfg      *config.Config
	logger   *slog.Logger
}

func NewRouter(handlers Handlers, credits middleware.BalanceChecker, cfg *config.Config, logger *slog.Logger) *Router {
	return &Router{
		handlers: handlers,
		credits:  credits,
		cfg:      cfg,
		logger:   logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := r.handlers

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", h.WebSocket.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/github", h.Auth.GithubLogin)
			auth.GET("/github/callback", h.Auth.GithubCallback)
		}

		// 公开接口 - 表单选项
		api.GET("/options", h.Options.List)

		// Twitter 授权回调由 state 识别用户，不带 token
		api.GET("/integrations/twitter/callback", h.Integration.Callback)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.POST("/generate", middleware.RequireCredits(r.credits), h.Generation.Generate)

			generations := authenticated.Group("/generations")
			{
				generations.GET("", h.Generation.List)
				generations.GET("/export", h.Generation.Export)
				generations.DELETE("/:id", h.Generation.Delete)
			}

			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", h.Settings.GetProfile)
				user.GET("/credits", h.Credits.Get)
			}

			authenticated.GET("/settings", h.Settings.Get)
			authenticated.POST("/settings", h.Settings.Update)

			// 支付
			payment := authenticated.Group("/payment")
			{
				payment.POST("/order", h.Payment.CreateOrder)
				payment.POST("/verify", h.Payment.Verify)
			}

			// 发布渠道
			twitter := authenticated.Group("/integrations/twitter")
			{
				twitter.GET("/connect", h.Integration.Connect)
				twitter.POST("/post", h.Integration.Post)
				twitter.DELETE("", h.Integration.Unlink)
			}
		}
	}

	return engine
}
