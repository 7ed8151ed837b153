package model

import "strings"

// SalaryCeiling is the top of the salary slider. A SalaryMax equal to it, or
// of 0, means "no upper bound". Any other SalaryMax, larger ones included, is
// a real bound: feed amounts are raw currency values and often far exceed it.
const SalaryCeiling = 100.0

// DefaultPageSize is used when a FilterSpec carries no usable page size.
const DefaultPageSize = 20

// SortKey selects the ordering of query results.
type SortKey string

const (
	SortNewest         SortKey = "newest"
	SortOldest         SortKey = "oldest"
	SortSalaryHigh     SortKey = "salary_high"
	SortSalaryLow      SortKey = "salary_low"
	SortCompanyName    SortKey = "company"
	SortMostApplicants SortKey = "applicants"
)

// ParseSortKey maps UI and API spellings to a SortKey. Unknown values sort newest first.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oldest":
		return SortOldest
	case "salary_high", "salaryhigh":
		return SortSalaryHigh
	case "salary_low", "salarylow":
		return SortSalaryLow
	case "company", "companyname", "company_name":
		return SortCompanyName
	case "applicants", "mostapplicants", "most_applicants":
		return SortMostApplicants
	default:
		return SortNewest
	}
}

// Job type quick filters.
const (
	JobTypeGovernment = "government-jobs"
	JobTypePrivate    = "private-jobs"
	JobTypeInternship = "internships"
	JobTypeRemote     = "remote"
)

// Experience buckets.
const (
	ExperienceFresher = "Fresher"
	ExperienceJunior  = "1-3 years"
	ExperienceMid     = "3-5 years"
	ExperienceSenior  = "5+ years"
)

// ExperienceLevels lists the buckets in display order.
var ExperienceLevels = []string{ExperienceFresher, ExperienceJunior, ExperienceMid, ExperienceSenior}

// FilterSpec is the full set of user-chosen parameters for one query.
// A zero FilterSpec matches everything, newest first, on the first page.
type FilterSpec struct {
	SearchText      string
	Companies       []string
	Category        string
	JobType         string
	RemoteOnly      bool
	VerifiedOnly    bool
	ExperienceLevel string
	SalaryMin       float64
	SalaryMax       float64 // 0 or SalaryCeiling: unbounded above
	Sort            SortKey
	Page            int
	PageSize        int
}

// Normalize clamps inconsistent values instead of rejecting them: swapped
// salary bounds are swapped back, a page below 1 becomes 1, and a missing
// page size falls back to DefaultPageSize. An unbounded SalaryMax is written
// as SalaryCeiling.
func (s FilterSpec) Normalize() FilterSpec {
	if s.SalaryMin < 0 {
		s.SalaryMin = 0
	}
	if s.SalaryMax <= 0 {
		s.SalaryMax = SalaryCeiling
	}
	if s.SalaryMax != SalaryCeiling && s.SalaryMin > s.SalaryMax {
		s.SalaryMin, s.SalaryMax = s.SalaryMax, s.SalaryMin
	}
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.Sort == "" {
		s.Sort = SortNewest
	} else {
		s.Sort = ParseSortKey(string(s.Sort))
	}
	return s
}

// SalaryBounded reports whether a normalized spec has an upper salary bound.
func (s FilterSpec) SalaryBounded() bool {
	return s.SalaryMax != SalaryCeiling
}

// SalaryFilterActive reports whether a normalized spec constrains salary.
func (s FilterSpec) SalaryFilterActive() bool {
	return s.SalaryMin > 0 || s.SalaryBounded()
}

// QueryResult is one page of a filtered, sorted feed.
type QueryResult struct {
	Items        []Job `json:"items"`
	TotalMatched int   `json:"total_matched"`
	TotalPages   int   `json:"total_pages"`
	Page         int   `json:"page"`
	PageSize     int   `json:"page_size"`
}

// FacetCount is one facet value with the number of jobs carrying it.
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets are the distinct filter values derived from one snapshot.
type Facets struct {
	Companies  []FacetCount `json:"companies"`
	Categories []FacetCount `json:"categories"`
	Locations  []string     `json:"locations"`
}

// DefaultCategories are the canonical category facet names used when the
// configuration does not list its own.
var DefaultCategories = []string{
	"IT & Tech",
	"Digital Marketing",
	"Design & Creative",
	"Sales & Marketing",
	"HR & Admin",
	"Finance & Accounting",
	"Customer Support",
	"Content & Writing",
}
