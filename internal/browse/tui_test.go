package browse

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobfeed/internal/model"
)

func testSnapshot() *model.FeedSnapshot {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	posted := func(days int) *time.Time {
		t := now.AddDate(0, 0, -days)
		return &t
	}
	return &model.FeedSnapshot{
		FetchedAt: now,
		Jobs: []model.Job{
			{ID: "A", Title: "Go Engineer", CompanyName: "Acme", SalaryAmount: 40, SalaryKnown: true, PostedAt: posted(0), Category: "IT & Tech", IsRemote: true},
			{ID: "B", Title: "Marketing Lead", CompanyName: "Acme", SalaryAmount: 60, SalaryKnown: true, PostedAt: posted(10), Category: "Digital Marketing"},
			{ID: "C", Title: "Go Support", CompanyName: "Globex", SalaryAmount: 20, SalaryKnown: true, PostedAt: posted(40), Category: "IT & Tech", IsVerified: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, pageSize int, detailFn DetailFunc) browseModel {
	t.Helper()
	m := newBrowseModel(testSnapshot(), model.DefaultCategories, pageSize, detailFn)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(browseModel)
}

func press(m browseModel, keys ...string) browseModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(browseModel)
	}
	return m
}

func ids(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestBrowse_InitialPage(t *testing.T) {
	m := newTestModel(t, 2, nil)

	assert.Equal(t, []string{"A", "B"}, ids(m.result.Items))
	assert.Equal(t, 2, m.result.TotalPages)
	assert.Contains(t, m.View(), "Go Engineer")
}

func TestBrowse_Paging(t *testing.T) {
	m := newTestModel(t, 2, nil)

	m = press(m, "n")
	assert.Equal(t, 2, m.spec.Page)
	assert.Equal(t, []string{"C"}, ids(m.result.Items))

	m = press(m, "n")
	assert.Equal(t, 2, m.spec.Page, "n on the last page is a no-op")

	m = press(m, "p", "p")
	assert.Equal(t, 1, m.spec.Page)
}

func TestBrowse_SortCycleResetsPage(t *testing.T) {
	m := newTestModel(t, 2, nil)
	m = press(m, "n", "s")

	assert.Equal(t, model.SortOldest, m.spec.Sort)
	assert.Equal(t, 1, m.spec.Page)
	assert.Equal(t, []string{"C", "B"}, ids(m.result.Items))

	m = press(m, "s")
	assert.Equal(t, model.SortSalaryHigh, m.spec.Sort)
	assert.Equal(t, []string{"B", "A"}, ids(m.result.Items))
}

func TestBrowse_Toggles(t *testing.T) {
	m := newTestModel(t, 10, nil)

	m = press(m, "r")
	assert.Equal(t, []string{"A"}, ids(m.result.Items))

	m = press(m, "r", "v")
	assert.Equal(t, []string{"C"}, ids(m.result.Items))

	m = press(m, "x")
	assert.Len(t, m.result.Items, 3)
}

func TestBrowse_LiveSearch(t *testing.T) {
	m := newTestModel(t, 10, nil)

	m = press(m, "/", "g", "o")
	assert.True(t, m.searching)
	assert.Equal(t, "go", m.spec.SearchText)
	assert.Equal(t, []string{"A", "C"}, ids(m.result.Items))

	kept := press(m, "enter")
	assert.False(t, kept.searching)
	assert.Equal(t, "go", kept.spec.SearchText)

	cleared := press(m, "esc")
	assert.False(t, cleared.searching)
	assert.Empty(t, cleared.spec.SearchText)
	assert.Len(t, cleared.result.Items, 3)
}

func TestBrowse_CategoryPicker(t *testing.T) {
	m := newTestModel(t, 10, nil)

	m = press(m, "c")
	require.Equal(t, viewPicker, m.view)
	assert.Contains(t, m.View(), "IT & Tech (2)")

	// Entries: All categories, IT & Tech (2), Digital Marketing (1).
	m = press(m, "down", "enter")
	assert.Equal(t, viewList, m.view)
	assert.Equal(t, "IT & Tech", m.spec.Category)
	assert.Equal(t, []string{"A", "C"}, ids(m.result.Items))

	m = press(m, "c", "esc")
	assert.Equal(t, "IT & Tech", m.spec.Category, "esc keeps the current filter")
}

func TestBrowse_DetailFetch(t *testing.T) {
	full := "Full description"
	detailFn := func(_ context.Context, id string) (model.Job, error) {
		return model.Job{ID: id, Title: "Go Engineer", CompanyName: "Acme", Category: "IT & Tech", Description: &full}, nil
	}
	m := newTestModel(t, 10, detailFn)

	next, cmd := m.Update(key("enter"))
	m = next.(browseModel)
	require.Equal(t, viewDetail, m.view)
	require.NotNil(t, cmd)
	assert.True(t, m.detailLoading)

	next, _ = m.Update(cmd())
	m = next.(browseModel)
	assert.False(t, m.detailLoading)
	assert.Equal(t, &full, m.detailJob.Description)

	content := m.renderDetail()
	assert.Contains(t, content, "Full description")
	assert.Contains(t, content, "Similar Jobs")

	m = press(m, "esc")
	assert.Equal(t, viewList, m.view)
}

func TestBrowse_DetailFetchError(t *testing.T) {
	detailFn := func(context.Context, string) (model.Job, error) {
		return model.Job{}, errors.New("boom")
	}
	m := newTestModel(t, 10, detailFn)

	next, cmd := m.Update(key("enter"))
	m = next.(browseModel)
	next, _ = m.Update(cmd())
	m = next.(browseModel)

	assert.Contains(t, m.detailError, "boom")
	assert.Equal(t, "A", m.detailJob.ID, "feed record stays on screen")
}

func TestNextSort_Wraps(t *testing.T) {
	assert.Equal(t, model.SortNewest, nextSort(model.SortMostApplicants))
	assert.Equal(t, model.SortNewest, nextSort("bogus"))
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wordWrap("one two three", 8))
	assert.Empty(t, wordWrap("   ", 8))
}
