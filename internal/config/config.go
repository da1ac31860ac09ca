package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool        `envconfig:"DEBUG" default:"false"`

	// Application
	App AppConfig

	// Server
	Server ServerConfig

	// Scraper
	Scraper ScraperConfig

	// Redis
	Redis RedisConfig

	// Storage (diagnostics)
	Storage StorageConfig

	// Rate Limits
	RateLimits RateLimitConfig
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"quotescout"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"APP_LOG_LEVEL" default:"info"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	EnableCORS      bool          `envconfig:"SERVER_ENABLE_CORS" default:"true"`
}

// ScraperConfig holds the remote-site scraping settings
type ScraperConfig struct {
	// TargetURL is the remote insurance site's quote form
	TargetURL string `envconfig:"SCRAPER_TARGET_URL" required:"true"`

	Headless          bool          `envconfig:"SCRAPER_HEADLESS" default:"true"`
	SessionsPerMinute int           `envconfig:"SCRAPER_SESSIONS_PER_MINUTE" default:"30"`
	WaitTimeout       time.Duration `envconfig:"SCRAPER_WAIT_TIMEOUT" default:"30s"`
	ResultTimeout     time.Duration `envconfig:"SCRAPER_RESULT_TIMEOUT" default:"60s"`
	SettleDelay       time.Duration `envconfig:"SCRAPER_SETTLE_DELAY" default:"1200ms"`

	// ResolveFallbackID re-enables the legacy silent substitution of a fixed
	// destination ID on a catalog lookup miss. Off by default: a miss fails
	// the request with a resolution error.
	ResolveFallbackID string `envconfig:"SCRAPER_RESOLVE_FALLBACK_ID" default:""`
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Host         string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port         int           `envconfig:"REDIS_PORT" default:"6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"5"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Addr returns Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds diagnostics object-storage settings
type StorageConfig struct {
	Enabled   bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint  string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"quotescout"`
	UseSSL    bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled        bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMin int  `envconfig:"RATE_LIMIT_REQUESTS_PER_MIN" default:"60"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.Scraper.TargetURL == "" {
		errors = append(errors, "SCRAPER_TARGET_URL is required")
	} else if !strings.HasPrefix(c.Scraper.TargetURL, "http://") && !strings.HasPrefix(c.Scraper.TargetURL, "https://") {
		errors = append(errors, "SCRAPER_TARGET_URL must be an absolute http(s) URL")
	}

	if c.Scraper.SessionsPerMinute < 1 {
		errors = append(errors, "SCRAPER_SESSIONS_PER_MINUTE must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetLogLevel returns the appropriate zap log level
func (c *Config) GetLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
