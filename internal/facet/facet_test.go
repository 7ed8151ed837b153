package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amishk599/jobfeed/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleFeed() []model.Job {
	return []model.Job{
		{ID: "A", CompanyName: "Acme", Category: "IT & Tech", Location: strPtr("Pune, Maharashtra")},
		{ID: "B", CompanyName: "Acme", Category: "Digital Marketing", Location: strPtr("Remote")},
		{ID: "C", CompanyName: "Globex", Category: "General"},
	}
}

func TestExtract_CompaniesByCount(t *testing.T) {
	f := Extract(sampleFeed(), nil)

	assert.Equal(t, []model.FacetCount{{Name: "Acme", Count: 2}, {Name: "Globex", Count: 1}}, f.Companies)
}

func TestExtract_TiesBrokenByName(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", CompanyName: "Zeta"},
		{ID: "2", CompanyName: "Alpha"},
		{ID: "3", CompanyName: "Mid"},
		{ID: "4", CompanyName: "Mid"},
	}
	f := Extract(jobs, nil)

	assert.Equal(t, []model.FacetCount{
		{Name: "Mid", Count: 2},
		{Name: "Alpha", Count: 1},
		{Name: "Zeta", Count: 1},
	}, f.Companies)
}

func TestExtract_CanonicalCategories(t *testing.T) {
	jobs := []model.Job{
		{ID: "1", Category: "it & tech"},
		{ID: "2", Category: "Senior IT & Tech roles"},
		{ID: "3", Category: "Marketing"},
		{ID: "4", Category: "General"},
	}
	f := Extract(jobs, []string{"IT & Tech", "Digital Marketing", "Sales & Marketing", "HR & Admin"})

	// "Marketing" is contained in both marketing names and counts for each.
	assert.Equal(t, []model.FacetCount{
		{Name: "IT & Tech", Count: 2},
		{Name: "Digital Marketing", Count: 1},
		{Name: "Sales & Marketing", Count: 1},
	}, f.Categories)
}

func TestExtract_DistinctCategoriesWhenNoneConfigured(t *testing.T) {
	f := Extract(sampleFeed(), nil)

	assert.Equal(t, []model.FacetCount{
		{Name: "Digital Marketing", Count: 1},
		{Name: "IT & Tech", Count: 1},
	}, f.Categories)
}

func TestExtract_Locations(t *testing.T) {
	jobs := append(sampleFeed(),
		model.Job{ID: "D", Location: strPtr(" Pune ,India")},
		model.Job{ID: "E", Location: strPtr("   ")},
		model.Job{ID: "F", Location: strPtr("Bengaluru")},
	)
	f := Extract(jobs, nil)

	assert.Equal(t, []string{"Bengaluru", "Pune", "Remote"}, f.Locations)
}

func TestExtract_EmptyFeed(t *testing.T) {
	f := Extract(nil, model.DefaultCategories)

	assert.Empty(t, f.Companies)
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Locations)
	assert.NotNil(t, f.Companies)
	assert.NotNil(t, f.Locations)
}

func TestExtract_Deterministic(t *testing.T) {
	jobs := sampleFeed()
	assert.Equal(t, Extract(jobs, model.DefaultCategories), Extract(jobs, model.DefaultCategories))
}

func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		name, category string
		want           bool
	}{
		{"IT & Tech", "IT & Tech", true},
		{"IT & Tech", "it & tech", true},
		{"Digital Marketing", "Marketing", true},
		{"Customer Support", "Customer Support Executive", true},
		{"HR & Admin", "Finance", false},
		{"HR & Admin", "", false},
		{"", "General", false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryMatches(tt.name, tt.category))
		})
	}
}
