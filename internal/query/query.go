// Package query answers filter, sort, and paginate requests against an
// in-memory feed snapshot. Everything here is pure and safe for concurrent
// use on the same snapshot.
package query

import (
	"strings"

	"github.com/amishk599/jobfeed/internal/facet"
	"github.com/amishk599/jobfeed/internal/model"
)

// Run filters, sorts, and paginates snapshot according to spec. The spec is
// clamped first; Run never fails for caller input. A page past the end
// yields no items with accurate totals.
func Run(snapshot *model.FeedSnapshot, spec model.FilterSpec) model.QueryResult {
	spec = spec.Normalize()

	var jobs []model.Job
	if snapshot != nil {
		jobs = snapshot.Jobs
	}
	matched := Filter(jobs, spec)
	sortJobs(matched, spec.Sort)

	total := len(matched)
	start, end, pages := pageBounds(total, spec.Page, spec.PageSize)

	return model.QueryResult{
		Items:        append([]model.Job{}, matched[start:end]...),
		TotalMatched: total,
		TotalPages:   pages,
		Page:         spec.Page,
		PageSize:     spec.PageSize,
	}
}

// pageBounds returns the slice bounds of page within total items and the page
// count. page and size are at least 1 and may be as large as math.MaxInt.
func pageBounds(total, page, size int) (start, end, pages int) {
	pages = total / size
	if total%size != 0 {
		pages++
	}
	if page > pages {
		return total, total, pages
	}
	start = (page - 1) * size
	end = total
	if total-start > size {
		end = start + size
	}
	return start, end, pages
}

// Filter returns, in feed order, the jobs that pass every constraint of a
// normalized spec. The input slice is not modified.
func Filter(jobs []model.Job, spec model.FilterSpec) []model.Job {
	search := strings.ToLower(strings.TrimSpace(spec.SearchText))
	companies := make(map[string]struct{}, len(spec.Companies))
	for _, c := range spec.Companies {
		if c = strings.TrimSpace(c); c != "" {
			companies[c] = struct{}{}
		}
	}
	category := strings.TrimSpace(spec.Category)
	salary := spec.SalaryFilterActive()

	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if search != "" && !matchesText(j, search) {
			continue
		}
		if len(companies) > 0 {
			if _, ok := companies[j.CompanyName]; !ok {
				continue
			}
		}
		if !MatchesJobType(j, spec.JobType) {
			continue
		}
		if category != "" && !facet.CategoryMatches(category, j.Category) {
			continue
		}
		if spec.RemoteOnly && !j.IsRemote {
			continue
		}
		if spec.VerifiedOnly && !j.IsVerified {
			continue
		}
		if spec.ExperienceLevel != "" && j.Experience != spec.ExperienceLevel {
			continue
		}
		if salary && !inSalaryRange(j, spec) {
			continue
		}
		out = append(out, j)
	}
	return out
}

// MatchesJobType applies one of the quick job-type filters. Unknown or empty
// types match everything.
func MatchesJobType(j model.Job, jobType string) bool {
	title := strings.ToLower(j.Title)
	company := strings.ToLower(j.CompanyName)

	switch jobType {
	case model.JobTypeGovernment:
		return strings.Contains(company, "government") ||
			strings.Contains(title, "government") ||
			strings.Contains(company, "ministry") ||
			strings.Contains(company, "department")
	case model.JobTypePrivate:
		return !strings.Contains(company, "government") && !strings.Contains(title, "government")
	case model.JobTypeInternship:
		return strings.Contains(title, "intern") ||
			strings.Contains(strings.ToLower(j.EmploymentType), "internship")
	case model.JobTypeRemote:
		return j.IsRemote
	default:
		return true
	}
}

func matchesText(j model.Job, needle string) bool {
	if strings.Contains(strings.ToLower(j.Title), needle) ||
		strings.Contains(strings.ToLower(j.CompanyName), needle) ||
		strings.Contains(strings.ToLower(j.DescriptionOrEmpty()), needle) {
		return true
	}
	for _, s := range j.Skills {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// inSalaryRange applies the active salary filter of a normalized spec. Jobs
// without a known salary never match one.
func inSalaryRange(j model.Job, spec model.FilterSpec) bool {
	if !j.SalaryKnown || j.SalaryAmount < spec.SalaryMin {
		return false
	}
	return !spec.SalaryBounded() || j.SalaryAmount <= spec.SalaryMax
}

// DefaultSimilarLimit is how many similar jobs a detail view shows.
const DefaultSimilarLimit = 3

// Similar returns up to limit jobs that share job's category or company, in
// feed order, excluding job itself.
func Similar(snapshot *model.FeedSnapshot, job model.Job, limit int) []model.Job {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	out := make([]model.Job, 0, limit)
	if snapshot == nil {
		return out
	}
	for _, j := range snapshot.Jobs {
		if len(out) == limit {
			break
		}
		if j.ID == job.ID {
			continue
		}
		if j.Category == job.Category || j.CompanyName == job.CompanyName {
			out = append(out, j)
		}
	}
	return out
}
