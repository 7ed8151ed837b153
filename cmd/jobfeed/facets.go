package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/facet"
	"github.com/amishk599/jobfeed/internal/model"
)

var facetsJSON bool

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "List companies, categories, and locations in the feed",
	RunE:  runFacets,
}

func init() {
	facetsCmd.Flags().BoolVar(&facetsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(facetsCmd)
}

func runFacets(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, a := mustApp(ctx, logger)
	defer a.Close()

	snap, err := a.loader.Load(ctx, time.Now())
	if err != nil {
		return err
	}

	facets := facet.Extract(snap.Jobs, cfg.Categories)
	if facetsJSON {
		return printJSON(facets)
	}

	printCounts("Companies", facets.Companies)
	printCounts("Categories", facets.Categories)
	fmt.Println("\nLocations")
	for _, l := range facets.Locations {
		fmt.Printf("  %s\n", l)
	}
	return nil
}

func printCounts(title string, counts []model.FacetCount) {
	fmt.Printf("\n%s\n", title)
	for _, c := range counts {
		fmt.Printf("  %-30s %d\n", c.Name, c.Count)
	}
}
