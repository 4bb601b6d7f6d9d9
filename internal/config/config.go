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

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Log       LogConfig       `mapstructure:"log"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	SearchModel string `mapstructure:"search_model"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WorkflowConfig struct {
	LinkConcurrency int    `mapstructure:"link_concurrency"`
	Seed            uint64 `mapstructure:"seed"`
}

// RateLimitConfig caps form and A2A submissions per client. An empty
// RedisAddr turns limiting off.
type RateLimitConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Requests      int           `mapstructure:"requests"`
	Window        time.Duration `mapstructure:"window"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.RedisAddr != ""
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", "3m")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.search_model", "gemini-2.5-flash")

	v.SetDefault("catalog.path", "configs/products.json")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("workflow.link_concurrency", 4)
	v.SetDefault("workflow.seed", 0)

	v.SetDefault("ratelimit.redis_addr", "")
	v.SetDefault("ratelimit.redis_password", "")
	v.SetDefault("ratelimit.redis_db", 0)
	v.SetDefault("ratelimit.requests", 5)
	v.SetDefault("ratelimit.window", "1m")
}

func validate(cfg *Config) error {
	if cfg.Gemini.APIKey == "" {
		return errors.New("GEMINI_API_KEY environment variable is required")
	}
	if cfg.Catalog.Path == "" {
		return errors.New("catalog.path must not be empty")
	}
	if cfg.Workflow.LinkConcurrency < 1 {
		return fmt.Errorf("workflow.link_concurrency must be at least 1, got %d", cfg.Workflow.LinkConcurrency)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.RateLimit.Enabled() && (cfg.RateLimit.Requests < 1 || cfg.RateLimit.Window <= 0) {
		return errors.New("ratelimit.requests and ratelimit.window must be positive when rate limiting is enabled")
	}
	return nil
}
