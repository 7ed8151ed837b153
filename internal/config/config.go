package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobfeed/internal/cache"
	"github.com/amishk599/jobfeed/internal/model"
)

// Config is the root configuration for jobfeed.
type Config struct {
	Feed       FeedConfig
	Cache      CacheConfig
	Server     ServerConfig
	Refresh    RefreshConfig
	Query      QueryConfig
	Categories []string // canonical category facet names
}

// FeedConfig describes the remote source and how hard to lean on it.
type FeedConfig struct {
	URL        string
	DetailURL  string        // defaults to URL
	Timeout    time.Duration // per-request HTTP timeout
	Retries    int
	RetryDelay time.Duration // base delay for exponential backoff
	MinDelay   time.Duration // minimum gap between requests to the same endpoint
}

// CacheConfig selects the snapshot medium and the freshness window.
type CacheConfig struct {
	Backend   string // sqlite, redis, or none
	Path      string // SQLite file
	RedisURL  string
	Namespace string
	TTL       time.Duration
}

// ServerConfig controls the HTTP query API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RefreshConfig controls background refresh. An empty Schedule disables it.
type RefreshConfig struct {
	Schedule string `yaml:"schedule"`
}

// QueryConfig holds query defaults.
type QueryConfig struct {
	PageSize int `yaml:"page_size"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Feed       rawFeedConfig  `yaml:"feed"`
	Cache      rawCacheConfig `yaml:"cache"`
	Server     ServerConfig   `yaml:"server"`
	Refresh    *RefreshConfig `yaml:"refresh"`
	Query      QueryConfig    `yaml:"query"`
	Categories []string       `yaml:"categories"`
}

type rawFeedConfig struct {
	URL        string `yaml:"url"`
	DetailURL  string `yaml:"detail_url"`
	Timeout    string `yaml:"timeout"`
	Retries    *int   `yaml:"retries"`
	RetryDelay string `yaml:"retry_delay"`
	MinDelay   string `yaml:"min_delay"`
}

type rawCacheConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisURL  string `yaml:"redis_url"`
	Namespace string `yaml:"namespace"`
	TTL       string `yaml:"ttl"`
}

const (
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 2
	defaultRetryDelay = 2 * time.Second
	defaultMinDelay   = 1 * time.Second
	defaultCachePath  = "jobfeed.db"
	defaultNamespace  = "jobfeed"
	defaultTTL        = 5 * time.Minute
	defaultAddr       = ":8080"
	defaultSchedule   = "@every 5m"
	defaultRedisURL   = "redis://localhost:6379/0"
)

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. Environment variables in the
// document are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout, err := parseDuration("feed.timeout", raw.Feed.Timeout, defaultTimeout)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("feed.retry_delay", raw.Feed.RetryDelay, defaultRetryDelay)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("feed.min_delay", raw.Feed.MinDelay, defaultMinDelay)
	if err != nil {
		return nil, err
	}
	ttl, err := parseDuration("cache.ttl", raw.Cache.TTL, defaultTTL)
	if err != nil {
		return nil, err
	}

	retries := defaultRetries
	if raw.Feed.Retries != nil {
		retries = *raw.Feed.Retries
	}

	// A refresh block without a schedule turns background refresh off.
	schedule := defaultSchedule
	if raw.Refresh != nil {
		schedule = raw.Refresh.Schedule
	}

	categories := raw.Categories
	if categories == nil {
		categories = append([]string(nil), model.DefaultCategories...)
	}

	cfg := &Config{
		Feed: FeedConfig{
			URL:        raw.Feed.URL,
			DetailURL:  orDefault(raw.Feed.DetailURL, raw.Feed.URL),
			Timeout:    timeout,
			Retries:    retries,
			RetryDelay: retryDelay,
			MinDelay:   minDelay,
		},
		Cache: CacheConfig{
			Backend:   orDefault(raw.Cache.Backend, cache.BackendSQLite),
			Path:      orDefault(raw.Cache.Path, defaultCachePath),
			RedisURL:  orDefault(raw.Cache.RedisURL, defaultRedisURL),
			Namespace: orDefault(raw.Cache.Namespace, defaultNamespace),
			TTL:       ttl,
		},
		Server:     ServerConfig{Addr: orDefault(raw.Server.Addr, defaultAddr)},
		Refresh:    RefreshConfig{Schedule: schedule},
		Query:      QueryConfig{PageSize: raw.Query.PageSize},
		Categories: categories,
	}
	if cfg.Query.PageSize == 0 {
		cfg.Query.PageSize = model.DefaultPageSize
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if err := checkURL("feed.url", cfg.Feed.URL); err != nil {
		return err
	}
	if err := checkURL("feed.detail_url", cfg.Feed.DetailURL); err != nil {
		return err
	}
	if cfg.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive, got %v", cfg.Feed.Timeout)
	}
	if cfg.Feed.Retries < 0 {
		return fmt.Errorf("feed.retries must not be negative, got %d", cfg.Feed.Retries)
	}
	if cfg.Feed.RetryDelay < 0 || cfg.Feed.MinDelay < 0 {
		return fmt.Errorf("feed.retry_delay and feed.min_delay must not be negative")
	}

	switch cfg.Cache.Backend {
	case cache.BackendSQLite, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend must be one of %q, %q, %q, got %q",
			cache.BackendSQLite, cache.BackendRedis, cache.BackendNone, cfg.Cache.Backend)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", cfg.Cache.TTL)
	}

	if cfg.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Refresh.Schedule); err != nil {
			return fmt.Errorf("refresh.schedule %q: %w", cfg.Refresh.Schedule, err)
		}
	}

	if cfg.Query.PageSize < 1 || cfg.Query.PageSize > 200 {
		return fmt.Errorf("query.page_size must be between 1 and 200, got %d", cfg.Query.PageSize)
	}

	return nil
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
