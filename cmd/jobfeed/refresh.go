package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the feed now and rewrite the cache",
	Long:  "Fetches the remote listing regardless of cache freshness. If the fetch fails, the last cached snapshot is kept.",
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, a := mustApp(ctx, logger)
	defer a.Close()

	now := time.Now()
	snap, err := a.loader.Refresh(ctx, now)
	if err != nil {
		return err
	}

	age := snap.Age(now)
	if age > 0 {
		fmt.Printf("fetch failed, kept cached snapshot: %d jobs, %s old\n", len(snap.Jobs), age.Round(time.Second))
		return nil
	}
	fmt.Printf("refreshed: %d jobs\n", len(snap.Jobs))
	return nil
}
