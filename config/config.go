package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	OSS       OSSConfig       `mapstructure:"oss"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Email     EmailConfig     `mapstructure:"email"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Credits   CreditsConfig   `mapstructure:"credits"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Cron      CronConfig      `mapstructure:"cron"`
}

type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Mode      string `mapstructure:"mode"`
	PublicURL string `mapstructure:"public_url"` // 前端地址，OAuth 回调后跳转
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	ExportPrefix    string `mapstructure:"export_prefix"`
	SignedURLTTL    int64  `mapstructure:"signed_url_ttl"` // 秒
}

type OAuthConfig struct {
	Github  GithubOAuthConfig  `mapstructure:"github"`
	Twitter TwitterOAuthConfig `mapstructure:"twitter"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type TwitterOAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	Scopes       []string `mapstructure:"scopes"`
	APIBaseURL   string   `mapstructure:"api_base_url"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	NotificationQueue string `mapstructure:"notification_queue"`
	MaxWorkers        int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type CreditsConfig struct {
	SignupBonus    int    `mapstructure:"signup_bonus"`    // 注册赠送
	PackageCredits int    `mapstructure:"package_credits"` // 每个套餐的积分
	PackagePrice   int64  `mapstructure:"package_price"`   // 套餐价格（最小货币单位）
	Currency       string `mapstructure:"currency"`
}

type PaymentConfig struct {
	RazorpayKeyID     string `mapstructure:"razorpay_key_id"`
	RazorpayKeySecret string `mapstructure:"razorpay_key_secret"`
	PendingExpireMins int    `mapstructure:"pending_expire_mins"` // 待支付订单过期时间
}

type LLMConfig struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	RetryAttempts       int    `mapstructure:"retry_attempts"`
	GenerateTimeoutSecs int    `mapstructure:"generate_timeout_secs"` // 单次生成总超时（含重试）
}

type ExtractorConfig struct {
	UserAgent           string `mapstructure:"user_agent"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	TranscriptLanguage  string `mapstructure:"transcript_language"`
	MinTranscriptLength int    `mapstructure:"min_transcript_length"`
	MinScrapeLength     int    `mapstructure:"min_scrape_length"`
	MaxScrapeLength     int    `mapstructure:"max_scrape_length"`
	MinContentLength    int    `mapstructure:"min_content_length"`
}

type CronConfig struct {
	PaymentSweepMinutes int `mapstructure:"payment_sweep_minutes"`
}

// Default 返回内置默认配置，配置文件中的值会覆盖它
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, Mode: "debug"},
		JWT:    JWTConfig{ExpireHours: 72},
		Queue:  QueueConfig{NotificationQueue: "queue:notifications", MaxWorkers: 2},
		CORS: CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		OSS: OSSConfig{ExportPrefix: "exports", SignedURLTTL: 3600},
		OAuth: OAuthConfig{
			Twitter: TwitterOAuthConfig{
				Scopes:     []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
				APIBaseURL: "https://api.twitter.com",
			},
		},
		Credits: CreditsConfig{
			SignupBonus:    5,
			PackageCredits: 10,
			PackagePrice:   9900,
			Currency:       "INR",
		},
		Payment: PaymentConfig{PendingExpireMins: 60},
		LLM: LLMConfig{
			BaseURL:             "https://generativelanguage.googleapis.com/v1beta",
			Model:               "gemini-2.0-flash",
			TimeoutSeconds:      45,
			RetryAttempts:       3,
			GenerateTimeoutSecs: 90,
		},
		Extractor: ExtractorConfig{
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			TimeoutSeconds:      20,
			TranscriptLanguage:  "en",
			MinTranscriptLength: 50,
			MinScrapeLength:     100,
			MaxScrapeLength:     5000,
			MinContentLength:    100,
		},
		Cron: CronConfig{PaymentSweepMinutes: 10},
	}
}

func Load(configPath string) (*Config, error) {
	// .env 中的密钥（GEMINI_API_KEY 等）先注入环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	bindSecrets(cfg)
	return cfg, nil
}

// bindSecrets 兼容常见的第三方密钥环境变量名
func bindSecrets(cfg *Config) {
	lookup := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	lookup(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	lookup(&cfg.Payment.RazorpayKeyID, "RAZORPAY_KEY_ID")
	lookup(&cfg.Payment.RazorpayKeySecret, "RAZORPAY_KEY_SECRET")
	lookup(&cfg.OAuth.Twitter.ClientID, "TWITTER_CLIENT_ID")
	lookup(&cfg.OAuth.Twitter.ClientSecret, "TWITTER_CLIENT_SECRET")
	lookup(&cfg.JWT.Secret, "SESSION_SECRET", "JWT_SECRET")
}
