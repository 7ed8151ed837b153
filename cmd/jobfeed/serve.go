package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobfeed/internal/scheduler"
	"github.com/amishk599/jobfeed/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API",
	Long:  "Serve the HTTP query API and refresh the cache in the background; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, a := mustApp(ctx, logger)
	defer a.Close()

	logger.Info("config loaded",
		"feed", cfg.Feed.URL,
		"cache", cfg.Cache.Backend,
		"ttl", cfg.Cache.TTL.String(),
		"schedule", cfg.Refresh.Schedule,
		"addr", cfg.Server.Addr,
	)

	srv := server.New(a.loader, cfg.Categories, cfg.Query.PageSize, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Refresh.Schedule != "" {
		sched, err := scheduler.NewScheduler(a.loader, cfg.Refresh.Schedule, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	} else {
		logger.Info("background refresh disabled")
	}

	if err := g.Wait(); err != nil {
		logger.Error("serve error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
