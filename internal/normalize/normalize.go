// Package normalize turns raw feed records into canonical jobs. It never
// fails: every missing or malformed field is replaced by a default.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/amishk599/jobfeed/internal/model"
)

const (
	defaultLogo           = "/default-company.png"
	defaultEmploymentType = "Full-time"
	defaultSalaryLabel    = "Competitive Salary"
	recentlyLabel         = "Recently"
)

// idNamespace seeds synthetic ids for records that arrive without one.
var idNamespace = uuid.MustParse("6f1c1c52-8e57-4c43-9d0e-5a3f4b7f2d10")

// Job converts one raw record into a Job. now is the reference time for the
// relative posting label; it is never read from the wall clock here.
func Job(raw model.RawJob, now time.Time) model.Job {
	postedAt := parsePostedDate(raw.PostedDate)

	job := model.Job{
		ID:          recordID(raw),
		Title:       strings.TrimSpace(raw.Title.String()),
		CompanyName: strings.TrimSpace(raw.CompanyName.String()),
		CompanyLogo: orDefault(raw.CompanyLogo.String(), defaultLogo),
		Location:    raw.Location.OrNil(),

		SalaryCurrency: strings.TrimSpace(raw.SalaryCurrency.String()),

		Skills:      cleanSkills(raw.Skills),
		PostedAt:    postedAt,
		PostedLabel: PostedLabel(postedAt, now),

		IsRemote:             raw.IsRemote.Value,
		IsVerified:           raw.IsVerified.Value,
		Featured:             raw.IsVerified.Value,
		Category:             orDefault(raw.Category.String(), model.DefaultCategory),
		EmploymentType:       orDefault(raw.Type.String(), defaultEmploymentType),
		Applicants:           nonNegative(raw.ApplicationCount.Value),
		Views:                nonNegative(raw.ViewsCount.Value),
		VisaSponsorship:      raw.VisaSponsorship.Value,
		RelocationAssistance: raw.RelocationAssistance.Value,

		Description:  raw.Description.OrNil(),
		Requirements: raw.Requirements.OrNil(),
		Benefits:     raw.Benefits.OrNil(),
	}

	if raw.SalaryAmount.Valid && raw.SalaryAmount.Value > 0 {
		job.SalaryAmount = raw.SalaryAmount.Value
		job.SalaryKnown = true
	}
	job.SalaryLabel = SalaryLabel(job.SalaryCurrency, job.SalaryAmount, job.SalaryKnown)
	job.Experience = ExperienceBucket(raw.Experience.String(), job.Title)
	if job.Description != nil {
		job.DescriptionText = PlainText(*job.Description)
	}

	return job
}

// Feed normalizes every record in order. When two records share an id the
// first occurrence wins and later ones are dropped.
func Feed(raws []model.RawJob, now time.Time) []model.Job {
	jobs := make([]model.Job, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		j := Job(raw, now)
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}
		jobs = append(jobs, j)
	}
	return jobs
}

// PostedLabel renders the age of a posting relative to now. Days are whole
// elapsed 24h periods; timestamps in the future count as today.
func PostedLabel(postedAt *time.Time, now time.Time) string {
	if postedAt == nil {
		return recentlyLabel
	}
	days := int(now.Sub(*postedAt).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}

// SalaryLabel never invents a number: an amount is shown only when the
// source provided one.
func SalaryLabel(currency string, amount float64, known bool) string {
	switch {
	case known && currency != "":
		return currency + " " + humanize.Commaf(amount)
	case known:
		return humanize.Commaf(amount)
	case currency != "":
		return currency + " Competitive"
	default:
		return defaultSalaryLabel
	}
}

// recordID prefers job_id, then _id, then a UUIDv5 over company, title and
// posted date so that id-less records stay stable across fetches.
func recordID(raw model.RawJob) string {
	if id := strings.TrimSpace(raw.JobID.String()); id != "" {
		return id
	}
	if id := strings.TrimSpace(raw.DocID.String()); id != "" {
		return id
	}
	key := strings.Join([]string{raw.CompanyName.String(), raw.Title.String(), raw.PostedDate.String()}, "\x00")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

var postedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// parsePostedDate accepts RFC 3339 and a few common variants, or a Unix
// timestamp in milliseconds. Anything else yields nil.
func parsePostedDate(f model.FlexString) *time.Time {
	s := strings.TrimSpace(f.String())
	if s == "" {
		return nil
	}
	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}

func cleanSkills(in model.StringList) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
