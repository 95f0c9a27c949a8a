package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"credit-risk/scoring"
)

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	HTTPPort         int
	HTTPWriteTimeout time.Duration
	LogLevel         string

	ModelPath   string
	ModelFormat string

	CacheBackend string
	RedisURL     string
	CacheTTL     time.Duration

	RateLimitCapacity int
	RateLimitRefill   time.Duration

	OpenAIKey      string
	OpenAIURL      string
	OpenAIModel    string
	AdvisorTimeout time.Duration
}

type configFile struct {
	Server struct {
		HTTPPort            int    `yaml:"http_port"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
		LogLevel            string `yaml:"log_level"`
	} `yaml:"server"`
	Model struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"`
	} `yaml:"model"`
	Cache struct {
		Backend    string `yaml:"backend"`
		RedisURL   string `yaml:"redis_url"`
		TTLSeconds *int   `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	RateLimit struct {
		Capacity      int `yaml:"capacity"`
		RefillSeconds int `yaml:"refill_seconds"`
	} `yaml:"rate_limit"`
	Advisor struct {
		URL            string `yaml:"url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"advisor"`
}

func Default() Config {
	return Config{
		HTTPPort:          8080,
		HTTPWriteTimeout:  15 * time.Second,
		LogLevel:          "info",
		ModelPath:         "models/xgboost_final_credit.json",
		ModelFormat:       string(scoring.FormatXGBoostJSON),
		CacheBackend:      CacheNone,
		RedisURL:          "localhost:6379",
		CacheTTL:          time.Hour,
		RateLimitCapacity: 5,
		RateLimitRefill:   time.Minute,
		OpenAIURL:         "https://api.openai.com/v1/chat/completions",
		OpenAIModel:       "gpt-4o-mini",
		AdvisorTimeout:    10 * time.Second,
	}
}

// Load layers the optional YAML file at path and then the environment over
// the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.apply(raw); err != nil {
				return Config{}, err
			}
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.ModelPath = envOrDefault("MODEL_PATH", cfg.ModelPath)
	cfg.ModelFormat = envOrDefault("MODEL_FORMAT", cfg.ModelFormat)
	cfg.CacheBackend = envOrDefault("CACHE_BACKEND", cfg.CacheBackend)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.OpenAIKey = envOrDefault("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.OpenAIURL = envOrDefault("OPENAI_API_URL", cfg.OpenAIURL)
	cfg.OpenAIModel = envOrDefault("OPENAI_MODEL", cfg.OpenAIModel)

	var err error
	if cfg.HTTPPort, err = envInt("HTTP_PORT", cfg.HTTPPort); err != nil {
		return Config{}, err
	}
	if cfg.HTTPWriteTimeout, err = envSeconds("HTTP_WRITE_TIMEOUT_SECONDS", cfg.HTTPWriteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = envSeconds("CACHE_TTL_SECONDS", cfg.CacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitCapacity, err = envInt("RATE_LIMIT_CAPACITY", cfg.RateLimitCapacity); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRefill, err = envSeconds("RATE_LIMIT_REFILL_SECONDS", cfg.RateLimitRefill); err != nil {
		return Config{}, err
	}
	if cfg.AdvisorTimeout, err = envSeconds("ADVISOR_TIMEOUT_SECONDS", cfg.AdvisorTimeout); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) apply(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Server.HTTPPort > 0 {
		c.HTTPPort = f.Server.HTTPPort
	}
	if f.Server.WriteTimeoutSeconds > 0 {
		c.HTTPWriteTimeout = time.Duration(f.Server.WriteTimeoutSeconds) * time.Second
	}
	if f.Server.LogLevel != "" {
		c.LogLevel = f.Server.LogLevel
	}
	if f.Model.Path != "" {
		c.ModelPath = f.Model.Path
	}
	if f.Model.Format != "" {
		c.ModelFormat = f.Model.Format
	}
	if f.Cache.Backend != "" {
		c.CacheBackend = f.Cache.Backend
	}
	if f.Cache.RedisURL != "" {
		c.RedisURL = f.Cache.RedisURL
	}
	if f.Cache.TTLSeconds != nil {
		c.CacheTTL = time.Duration(*f.Cache.TTLSeconds) * time.Second
	}
	if f.RateLimit.Capacity > 0 {
		c.RateLimitCapacity = f.RateLimit.Capacity
	}
	if f.RateLimit.RefillSeconds > 0 {
		c.RateLimitRefill = time.Duration(f.RateLimit.RefillSeconds) * time.Second
	}
	if f.Advisor.URL != "" {
		c.OpenAIURL = f.Advisor.URL
	}
	if f.Advisor.Model != "" {
		c.OpenAIModel = f.Advisor.Model
	}
	if f.Advisor.TimeoutSeconds > 0 {
		c.AdvisorTimeout = time.Duration(f.Advisor.TimeoutSeconds) * time.Second
	}
	return nil
}

func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.ModelPath == "" {
		return errors.New("model path is required")
	}
	switch c.ModelFormat {
	case string(scoring.FormatXGBoostJSON), string(scoring.FormatLogisticJSON):
	default:
		return fmt.Errorf("unknown model format %q", c.ModelFormat)
	}
	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid cache ttl %s", c.CacheTTL)
	}
	if c.RateLimitCapacity <= 0 {
		return fmt.Errorf("invalid rate limit capacity %d", c.RateLimitCapacity)
	}
	if c.RateLimitRefill <= 0 {
		return fmt.Errorf("invalid rate limit refill %s", c.RateLimitRefill)
	}
	if c.HTTPWriteTimeout <= 0 {
		return fmt.Errorf("invalid http write timeout %s", c.HTTPWriteTimeout)
	}
	// the fallback explanation must still fit in the response window
	if c.AdvisorTimeout <= 0 || c.AdvisorTimeout >= c.HTTPWriteTimeout {
		return fmt.Errorf("advisor timeout %s must be positive and below the http write timeout %s",
			c.AdvisorTimeout, c.HTTPWriteTimeout)
	}
	return nil
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, raw)
	}
	return v, nil
}

func envSeconds(name string, fallback time.Duration) (time.Duration, error) {
	if os.Getenv(name) == "" {
		return fallback, nil
	}
	v, err := envInt(name, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}
