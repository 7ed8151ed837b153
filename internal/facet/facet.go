// Package facet derives the distinct filter values of a feed snapshot.
package facet

import (
	"sort"
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

// Extract returns the company, category, and location facets of jobs.
// Company and category facets are sorted by count descending, then name
// ascending; zero-count categories are omitted. categories lists the
// canonical category names; when empty, the distinct job categories other
// than model.DefaultCategory are used instead.
func Extract(jobs []model.Job, categories []string) model.Facets {
	if len(categories) == 0 {
		categories = distinctCategories(jobs)
	}

	companyCounts := make(map[string]int)
	categoryCounts := make([]int, len(categories))
	locations := make(map[string]struct{})

	for _, j := range jobs {
		if name := strings.TrimSpace(j.CompanyName); name != "" {
			companyCounts[name]++
		}
		for i, c := range categories {
			if CategoryMatches(c, j.Category) {
				categoryCounts[i]++
			}
		}
		if loc := LocationKey(j.LocationOrEmpty()); loc != "" {
			locations[loc] = struct{}{}
		}
	}

	companies := make([]model.FacetCount, 0, len(companyCounts))
	for name, n := range companyCounts {
		companies = append(companies, model.FacetCount{Name: name, Count: n})
	}
	sortByCount(companies)

	cats := make([]model.FacetCount, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if categoryCounts[i] == 0 {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, model.FacetCount{Name: c, Count: categoryCounts[i]})
	}
	sortByCount(cats)

	locs := make([]string, 0, len(locations))
	for l := range locations {
		locs = append(locs, l)
	}
	sort.Strings(locs)

	return model.Facets{Companies: companies, Categories: cats, Locations: locs}
}

// CategoryMatches reports whether a canonical category name and a job's
// free-text category overlap: either contains the other, ignoring case.
// Blank values never match.
func CategoryMatches(name, jobCategory string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	c := strings.ToLower(strings.TrimSpace(jobCategory))
	if n == "" || c == "" {
		return false
	}
	return strings.Contains(c, n) || strings.Contains(n, c)
}

// LocationKey reduces a location to its first comma-separated segment,
// so "Pune, Maharashtra, India" groups under "Pune".
func LocationKey(location string) string {
	first, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(first)
}

func distinctCategories(jobs []model.Job) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, j := range jobs {
		c := strings.TrimSpace(j.Category)
		if c == "" || strings.EqualFold(c, model.DefaultCategory) {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func sortByCount(fc []model.FacetCount) {
	sort.Slice(fc, func(i, j int) bool {
		if fc[i].Count != fc[j].Count {
			return fc[i].Count > fc[j].Count
		}
		return fc[i].Name < fc[j].Name
	})
}
