package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Dataset   DatasetConfig
	Report    ReportConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// DatasetConfig describes where the FoodKeeper dataset comes from
type DatasetConfig struct {
	Path           string `mapstructure:"path"`
	URL            string `mapstructure:"url"`
	ValidateSchema bool   `mapstructure:"validate_schema"`
}

// ReportConfig holds report and export settings
type ReportConfig struct {
	OutputDir string  `mapstructure:"output_dir"`
	Threshold float64 `mapstructure:"threshold"`
	Strict    bool    `mapstructure:"strict"` // exit 1 when the threshold is missed
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds settings for the serve subcommand
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`  // requests per minute
	Dataset int `mapstructure:"dataset"` // downloads per hour
}

// Load loads configuration from an optional config file, .env and environment variables.
// An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/shelflife/")
	}

	v.SetEnvPrefix("SHELFLIFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional unless one was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding existing variables
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "FoodKeeper.json")
	v.SetDefault("dataset.url", "")
	v.SetDefault("dataset.validate_schema", true)

	// Report defaults
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.threshold", 0.80)
	v.SetDefault("report.strict", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.dataset", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Dataset.Path == "" && config.Dataset.URL == "" {
		return fmt.Errorf("dataset path or URL is required (set SHELFLIFE_DATASET_PATH)")
	}

	if config.Report.Threshold <= 0 || config.Report.Threshold > 1 {
		return fmt.Errorf("report threshold must be in (0, 1], got: %v", config.Report.Threshold)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Logging.Format != "console" && config.Logging.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Logging.Format)
	}

	return nil
}
