package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Remote      RemoteConfig    `mapstructure:"remote"`
	KeepAlive   KeepAliveConfig `mapstructure:"keepalive"`
	Store       StoreConfig     `mapstructure:"store"`
	Session     SessionConfig   `mapstructure:"session"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogDir      string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RemoteConfig 遠端雞尾酒服務設定
type RemoteConfig struct {
	APIURL string `mapstructure:"api_url"`
	// WSURL 只記錄，keep-alive 一律走 HTTP ping
	WSURL   string        `mapstructure:"ws_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KeepAliveConfig 保活設定
type KeepAliveConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Path     string        `mapstructure:"path"`
}

// StoreConfig 本地食譜資料庫設定
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig 表單 session 設定
type SessionConfig struct {
	CookieName      string        `mapstructure:"cookie_name"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig session 快照用的 redis
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時只用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("remote.api_url", "API_URL")
	viper.BindEnv("remote.ws_url", "WS_URL")
	viper.BindEnv("remote.timeout", "API_TIMEOUT")
	viper.BindEnv("keepalive.enabled", "KEEPALIVE_ENABLED")
	viper.BindEnv("keepalive.interval", "KEEPALIVE_INTERVAL")
	viper.BindEnv("store.path", "STORE_PATH")
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("session.redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("session.redis.addr", "REDIS_ADDR")
	viper.BindEnv("session.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")
	viper.BindEnv("log_dir", "LOG_DIR")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "cocktail-web")

	// 伺服器設定
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 遠端服務設定，timeout 0 代表交給傳輸層
	viper.SetDefault("remote.api_url", "")
	viper.SetDefault("remote.ws_url", "")
	viper.SetDefault("remote.timeout", "0s")

	// 保活設定
	viper.SetDefault("keepalive.enabled", true)
	viper.SetDefault("keepalive.interval", "5m")
	viper.SetDefault("keepalive.path", "/home/health")

	// 本地資料庫
	viper.SetDefault("store.path", "data/cocktails.db")

	// session 設定
	viper.SetDefault("session.cookie_name", "cocktail_session")
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("session.max_size", 1000)
	viper.SetDefault("session.cleanup_interval", "10m")
	viper.SetDefault("session.redis.enabled", false)
	viper.SetDefault("session.redis.addr", "localhost:6379")
	viper.SetDefault("session.redis.password", "")
	viper.SetDefault("session.redis.db", 0)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("dedup_window", "1s")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Remote.APIURL == "" {
		return fmt.Errorf("remote api url is required (API_URL)")
	}
	u, err := url.Parse(config.Remote.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid remote api url %q", config.Remote.APIURL)
	}
	config.Remote.APIURL = strings.TrimRight(config.Remote.APIURL, "/")

	if config.Remote.Timeout < 0 {
		return fmt.Errorf("invalid remote timeout")
	}

	if config.KeepAlive.Enabled && config.KeepAlive.Interval <= 0 {
		return fmt.Errorf("invalid keepalive interval")
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}
	if config.Session.MaxSize <= 0 {
		return fmt.Errorf("invalid session max size")
	}
	if config.Session.CleanupInterval <= 0 {
		return fmt.Errorf("invalid session cleanup interval")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
