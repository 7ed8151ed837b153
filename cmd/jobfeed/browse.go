package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/browse"
	"github.com/amishk599/jobfeed/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the feed interactively (TUI)",
	Long:  "Loads the feed behind a spinner, then opens the search, filter, and detail view.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Any log output while the TUI owns the terminal corrupts the display.
	a, err := newApp(context.Background(), cfg, silentLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := browse.RunLoader("Loading jobs", func(ctx context.Context) (*model.FeedSnapshot, error) {
		return a.loader.Load(ctx, time.Now())
	})
	if err != nil {
		return fmt.Errorf("loading feed: %w", err)
	}

	detail := func(ctx context.Context, id string) (model.Job, error) {
		return a.loader.Detail(ctx, id, time.Now())
	}
	return browse.Run(snap, cfg.Categories, cfg.Query.PageSize, detail)
}
