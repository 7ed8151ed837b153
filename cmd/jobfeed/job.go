package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/normalize"
	"github.com/amishk599/jobfeed/internal/query"
)

var jobFlags struct {
	similar bool
	asJSON  bool
}

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Show the full record of one job",
	Long:  "Fetches one job through the detail endpoint. The cache is not consulted unless --similar is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJob,
}

func init() {
	jobCmd.Flags().BoolVar(&jobFlags.similar, "similar", false, "also list similar jobs from the feed")
	jobCmd.Flags().BoolVar(&jobFlags.asJSON, "json", false, "print JSON")
	rootCmd.AddCommand(jobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, a := mustApp(ctx, logger)
	defer a.Close()

	now := time.Now()
	job, err := a.loader.Detail(ctx, args[0], now)
	if err != nil {
		return err
	}

	var similar []model.Job
	if jobFlags.similar {
		snap, err := a.loader.Load(ctx, now)
		if err != nil {
			return err
		}
		similar = query.Similar(snap, job, query.DefaultSimilarLimit)
	}

	if jobFlags.asJSON {
		if !jobFlags.similar {
			return printJSON(job)
		}
		return printJSON(struct {
			model.Job
			Similar []model.Job `json:"similar"`
		}{job, similar})
	}

	printJob(job)
	if jobFlags.similar {
		fmt.Println("\nSimilar jobs")
		if len(similar) == 0 {
			fmt.Println("  (none)")
		}
		for _, s := range similar {
			fmt.Printf("  %-10s %s · %s\n", s.ID, s.Title, s.CompanyName)
		}
	}
	return nil
}

func printJob(j model.Job) {
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("%-14s %s\n", label+":", value)
		}
	}
	field("Title", j.Title)
	field("Company", j.CompanyName)
	field("Location", j.LocationOrEmpty())
	field("ID", j.ID)
	field("Salary", j.SalaryLabel)
	field("Posted", j.PostedLabel)
	field("Type", j.EmploymentType)
	field("Category", j.Category)
	field("Experience", j.Experience)
	field("Skills", strings.Join(j.Skills, ", "))
	field("Applicants", fmt.Sprint(j.Applicants))
	field("Remote", fmt.Sprint(j.IsRemote))
	field("Verified", fmt.Sprint(j.IsVerified))

	for _, s := range []struct {
		label string
		text  *string
	}{
		{"Description", j.Description},
		{"Requirements", j.Requirements},
		{"Benefits", j.Benefits},
	} {
		if s.text == nil {
			continue
		}
		if plain := normalize.PlainText(*s.text); plain != "" {
			fmt.Printf("\n%s\n%s\n", s.label, plain)
		}
	}
}
