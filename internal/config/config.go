package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultWorkerCount       = 4
	defaultMaxQueueSize      = 100
	defaultMaxUploadBytes    = 10 << 20 // 10MB
	defaultRenderConcurrency = 8
	defaultJobTTL            = time.Hour
	defaultCacheTTL          = 24 * time.Hour
	defaultStatsWindow       = time.Hour

	DefaultFigureSearchURL = "https://www.google.com/search?tbm=isch&q="
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Worker pool
	WorkerCount          int `yaml:"worker_count"`
	MaxQueueSize         int `yaml:"max_queue_size"`
	MaxRenderConcurrency int `yaml:"max_render_concurrency"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Render cache; empty RedisAddr keeps it in memory.
	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	StatsWindow time.Duration `yaml:"stats_window"`

	// Prefix the figure search query is appended to.
	FigureSearchURL string `yaml:"figure_search_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                 "8091",
		WorkerCount:          defaultWorkerCount,
		MaxQueueSize:         defaultMaxQueueSize,
		MaxRenderConcurrency: defaultRenderConcurrency,
		MaxUploadBytes:       defaultMaxUploadBytes,
		JobTTL:               defaultJobTTL,
		PDFFallbackPdftotext: true,
		CacheTTL:             defaultCacheTTL,
		StatsWindow:          defaultStatsWindow,
		FigureSearchURL:      DefaultFigureSearchURL,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// LESSONRENDER_CONFIG if set, and then environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("LESSONRENDER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("LESSONRENDER_API_KEY", cfg.APIKey)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxRenderConcurrency = envInt("MAX_RENDER_CONCURRENCY", cfg.MaxRenderConcurrency)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTL = envDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.FigureSearchURL = envOr("FIGURE_SEARCH_URL", cfg.FigureSearchURL)

	cfg.clamp()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) clamp() {
	if c.Port == "" {
		c.Port = "8091"
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = defaultMaxQueueSize
	}
	if c.MaxRenderConcurrency <= 0 {
		c.MaxRenderConcurrency = defaultRenderConcurrency
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = defaultJobTTL
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = defaultStatsWindow
	}
	if c.FigureSearchURL == "" {
		c.FigureSearchURL = DefaultFigureSearchURL
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LESSONRENDER_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
