package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/amishk599/jobfeed/internal/model"
)

// sortJobs orders jobs in place. The sort is stable, so jobs that tie keep
// their feed order.
func sortJobs(jobs []model.Job, key model.SortKey) {
	switch key {
	case model.SortOldest:
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return comparePosted(a, b, false) })
	case model.SortSalaryHigh:
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return cmp.Compare(b.SalaryAmount, a.SalaryAmount) })
	case model.SortSalaryLow:
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return cmp.Compare(a.SalaryAmount, b.SalaryAmount) })
	case model.SortCompanyName:
		// Collators keep internal buffers and must not be shared across goroutines.
		c := collate.New(language.English)
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return c.CompareString(a.CompanyName, b.CompanyName) })
	case model.SortMostApplicants:
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return cmp.Compare(b.Applicants, a.Applicants) })
	default:
		slices.SortStableFunc(jobs, func(a, b model.Job) int { return comparePosted(a, b, true) })
	}
}

// comparePosted orders by posting time. A job without a date counts as the
// oldest possible posting: last under newest, first under oldest.
func comparePosted(a, b model.Job, newestFirst bool) int {
	if newestFirst {
		a, b = b, a
	}
	switch {
	case a.PostedAt == nil && b.PostedAt == nil:
		return 0
	case a.PostedAt == nil:
		return -1
	case b.PostedAt == nil:
		return 1
	}
	return a.PostedAt.Compare(*b.PostedAt)
}
