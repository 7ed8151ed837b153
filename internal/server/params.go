package server

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

// ParseFilterSpec builds a FilterSpec from URL query parameters. Values that
// do not parse are ignored rather than rejected; the query engine clamps
// whatever remains.
//
//	search, company (repeatable or comma-separated), category, type, remote,
//	verified, experience, salary_min, salary_max, sort, page, page_size
func ParseFilterSpec(q url.Values, defaultPageSize int) model.FilterSpec {
	var companies []string
	for _, v := range q["company"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				companies = append(companies, c)
			}
		}
	}

	return model.FilterSpec{
		SearchText:      strings.TrimSpace(q.Get("search")),
		Companies:       companies,
		Category:        strings.TrimSpace(q.Get("category")),
		JobType:         strings.TrimSpace(q.Get("type")),
		RemoteOnly:      boolParam(q, "remote"),
		VerifiedOnly:    boolParam(q, "verified"),
		ExperienceLevel: strings.TrimSpace(q.Get("experience")),
		SalaryMin:       floatParam(q, "salary_min"),
		SalaryMax:       floatParam(q, "salary_max"),
		Sort:            model.ParseSortKey(q.Get("sort")),
		Page:            intParam(q, "page", 1),
		PageSize:        intParam(q, "page_size", defaultPageSize),
	}
}

func boolParam(q url.Values, key string) bool {
	b, _ := strconv.ParseBool(q.Get(key))
	return b
}

func floatParam(q url.Values, key string) float64 {
	f, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func intParam(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}
