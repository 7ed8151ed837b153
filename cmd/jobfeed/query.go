package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/query"
)

var queryFlags struct {
	search     string
	companies  []string
	category   string
	jobType    string
	remote     bool
	verified   bool
	experience string
	salaryMin  float64
	salaryMax  float64
	sort       string
	page       int
	pageSize   int
	asJSON     bool
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter, sort, and page the cached feed",
	Long:  "Runs one query against the feed (fetching it if the cache is stale) and prints the page as a table or JSON.",
	RunE:  runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVarP(&queryFlags.search, "search", "s", "", "match title, company, skills, or description")
	f.StringSliceVar(&queryFlags.companies, "company", nil, "company name (repeatable)")
	f.StringVar(&queryFlags.category, "category", "", "category")
	f.StringVar(&queryFlags.jobType, "type", "", "job type: government-jobs, private-jobs, internships, remote")
	f.BoolVar(&queryFlags.remote, "remote", false, "remote jobs only")
	f.BoolVar(&queryFlags.verified, "verified", false, "verified jobs only")
	f.StringVar(&queryFlags.experience, "experience", "", "experience level: "+strings.Join(model.ExperienceLevels, ", "))
	f.Float64Var(&queryFlags.salaryMin, "salary-min", 0, "minimum salary")
	f.Float64Var(&queryFlags.salaryMax, "salary-max", 0, "maximum salary (0 for no limit)")
	f.StringVar(&queryFlags.sort, "sort", string(model.SortNewest), "sort: newest, oldest, salary_high, salary_low, company, applicants")
	f.IntVarP(&queryFlags.page, "page", "p", 1, "page number")
	f.IntVar(&queryFlags.pageSize, "page-size", 0, "results per page (default from config)")
	f.BoolVar(&queryFlags.asJSON, "json", false, "print JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, a := mustApp(ctx, logger)
	defer a.Close()

	snap, err := a.loader.Load(ctx, time.Now())
	if err != nil {
		return err
	}

	pageSize := queryFlags.pageSize
	if pageSize <= 0 {
		pageSize = cfg.Query.PageSize
	}
	result := query.Run(snap, model.FilterSpec{
		SearchText:      queryFlags.search,
		Companies:       queryFlags.companies,
		Category:        queryFlags.category,
		JobType:         queryFlags.jobType,
		RemoteOnly:      queryFlags.remote,
		VerifiedOnly:    queryFlags.verified,
		ExperienceLevel: queryFlags.experience,
		SalaryMin:       queryFlags.salaryMin,
		SalaryMax:       queryFlags.salaryMax,
		Sort:            model.ParseSortKey(queryFlags.sort),
		Page:            queryFlags.page,
		PageSize:        pageSize,
	})

	if queryFlags.asJSON {
		return printJSON(result)
	}
	printJobTable(result.Items)
	fmt.Printf("\nPage %d of %d (%d matched)\n", result.Page, max(result.TotalPages, 1), result.TotalMatched)
	return nil
}

func printJobTable(jobs []model.Job) {
	fmt.Printf("%-10s %-34s %-22s %-20s %-12s %s\n", "ID", "Title", "Company", "Location", "Salary", "Posted")
	fmt.Println(strings.Repeat("─", 112))
	for _, j := range jobs {
		fmt.Printf("%-10s %-34s %-22s %-20s %-12s %s\n",
			truncate(j.ID, 10), truncate(j.Title, 34), truncate(j.CompanyName, 22),
			truncate(j.LocationOrEmpty(), 20), truncate(j.SalaryLabel, 12), j.PostedLabel)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
