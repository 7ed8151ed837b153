package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/adapter"
	"github.com/amishk599/jobfeed/internal/cache"
	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/feed"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/ratelimit"
	"github.com/amishk599/jobfeed/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobfeed",
	Short: "Job discovery feed: fetch, cache, filter, browse",
	Long:  "jobfeed mirrors a remote job listing into a local cache and answers filtered, sorted, paginated queries over it.",
	// With no subcommand, run the API server.
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBFEED_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it. A .env file in the
// working directory, if present, is loaded first so ${VAR} references in the
// config can use it.
// Priority: explicit path arg > JOBFEED_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if path == "" {
		if env := os.Getenv("JOBFEED_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setupLogger logs to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// app is the wired feed pipeline shared by every command.
type app struct {
	loader *feed.Loader
	kv     cache.KV
}

func (a *app) Close() error {
	return a.kv.Close()
}

// buildSource wraps the HTTP client in rate limiting, then retries, so every
// retry attempt also waits its turn.
func buildSource(cfg *config.Config, logger *slog.Logger) model.FeedSource {
	httpClient := &http.Client{Timeout: cfg.Feed.Timeout}

	var source model.FeedSource = adapter.NewFeedClient(cfg.Feed.URL, cfg.Feed.DetailURL, httpClient, logger)
	source = ratelimit.NewRateLimitedSource(source, ratelimit.NewLimiter(cfg.Feed.MinDelay))
	return retry.NewRetrySource(source, cfg.Feed.Retries, cfg.Feed.RetryDelay, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	kv, err := cache.OpenKV(ctx, cfg.Cache.Backend, cfg.Cache.Path, cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	logger.Debug("cache opened", "backend", cfg.Cache.Backend, "namespace", cfg.Cache.Namespace, "ttl", cfg.Cache.TTL.String())

	store := cache.NewStore(kv, cfg.Cache.Namespace, logger)
	return &app{
		loader: feed.NewLoader(buildSource(cfg, logger), store, cfg.Cache.TTL, logger),
		kv:     kv,
	}, nil
}

// mustApp loads config and wires the pipeline, exiting on failure.
func mustApp(ctx context.Context, logger *slog.Logger) (*config.Config, *app) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up feed", "error", err)
		os.Exit(1)
	}
	return cfg, a
}
