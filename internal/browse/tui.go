// Package browse is a terminal front end over the query engine: one page of
// results at a time, with search, sort, and facet filters.
package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobfeed/internal/facet"
	"github.com/amishk599/jobfeed/internal/model"
	"github.com/amishk599/jobfeed/internal/normalize"
	"github.com/amishk599/jobfeed/internal/query"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
	viewPicker
)

// sortCycle is the order the s key steps through.
var sortCycle = []model.SortKey{
	model.SortNewest,
	model.SortOldest,
	model.SortSalaryHigh,
	model.SortSalaryLow,
	model.SortCompanyName,
	model.SortMostApplicants,
}

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DetailFunc fetches the full record of one job. It may be nil.
type DetailFunc func(ctx context.Context, id string) (model.Job, error)

// detailFetchedMsg is sent when an async detail fetch completes.
type detailFetchedMsg struct {
	job model.Job
	err error
}

type browseModel struct {
	snap   *model.FeedSnapshot
	facets model.Facets
	spec   model.FilterSpec
	result model.QueryResult

	list      viewport.Model
	cursor    int
	search    textinput.Model
	searching bool
	width     int
	height    int
	ready     bool

	view   viewState
	picker picker

	// Detail view state
	detailJob      model.Job
	detailLoading  bool
	detailError    string
	detailViewport viewport.Model
	detailFn       DetailFunc
}

func newBrowseModel(snap *model.FeedSnapshot, categories []string, pageSize int, detailFn DetailFunc) browseModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title, company, skills, description"
	search.CharLimit = 100

	m := browseModel{
		snap:     snap,
		facets:   facet.Extract(snap.Jobs, categories),
		spec:     model.FilterSpec{PageSize: pageSize}.Normalize(),
		search:   search,
		detailFn: detailFn,
	}
	m.rerun()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case detailFetchedMsg:
		if msg.job.ID != "" && msg.job.ID != m.detailJob.ID {
			return m, nil // user moved on
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailError = fmt.Sprintf("failed to load full record: %v", msg.err)
		} else {
			m.detailError = ""
			m.detailJob = msg.job
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewDetail:
			return m.updateDetailView(msg)
		case viewPicker:
			return m.updatePickerView(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.SetValue(m.spec.SearchText)
		m.recalcLayout()
		return m, m.search.Focus()
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "n", "pgdown":
		if m.spec.Page < m.result.TotalPages {
			m.spec.Page++
			m.cursor = 0
			m.rerun()
		}
		return m, nil
	case "p", "pgup":
		if m.spec.Page > 1 {
			m.spec.Page--
			m.cursor = 0
			m.rerun()
		}
		return m, nil
	case "s":
		m.spec.Sort = nextSort(m.spec.Sort)
		m.resetPage()
		return m, nil
	case "r":
		m.spec.RemoteOnly = !m.spec.RemoteOnly
		m.resetPage()
		return m, nil
	case "v":
		m.spec.VerifiedOnly = !m.spec.VerifiedOnly
		m.resetPage()
		return m, nil
	case "c":
		m.picker = newPicker(m.facets.Categories, m.spec.Category)
		m.view = viewPicker
		return m, nil
	case "x":
		m.spec = model.FilterSpec{PageSize: m.spec.PageSize, Sort: m.spec.Sort}.Normalize()
		m.resetPage()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearch filters live while the user types. Enter keeps the search,
// esc clears it.
func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.recalcLayout()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.spec.SearchText = ""
		m.resetPage()
		m.recalcLayout()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.spec.SearchText {
		m.spec.SearchText = v
		m.resetPage()
	}
	return m, cmd
}

func (m browseModel) updatePickerView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.view = viewList
		return m, nil
	case "enter":
		m.spec.Category = m.picker.selected()
		m.view = viewList
		m.resetPage()
		return m, nil
	}
	m.picker = m.picker.update(msg)
	return m, nil
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.result.Items) == 0 {
		return m, nil
	}

	job := m.result.Items[m.cursor]
	m.view = viewDetail
	m.detailJob = job
	m.detailError = ""
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())

	if m.detailFn != nil {
		m.detailLoading = true
		return m, m.fetchDetailCmd(job.ID)
	}
	return m, nil
}

func (m browseModel) fetchDetailCmd(id string) tea.Cmd {
	fn := m.detailFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		job, err := fn(ctx, id)
		if err != nil {
			job = model.Job{}
		}
		return detailFetchedMsg{job: job, err: err}
	}
}

// rerun re-queries the snapshot with the current spec.
func (m *browseModel) rerun() {
	m.result = query.Run(m.snap, m.spec)
	m.spec.Page = m.result.Page
	m.cursor = clamp(m.cursor, 0, max(len(m.result.Items)-1, 0))
	m.recalcContent()
}

// resetPage goes back to page one after the filter set changed.
func (m *browseModel) resetPage() {
	m.spec.Page = 1
	m.cursor = 0
	m.rerun()
	m.list.SetYOffset(0)
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.result.Items)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.list.YOffset {
		m.list.SetYOffset(cursorTop)
	} else if cursorBottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(cursorBottom - m.list.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	width := max(m.width-4, 20)

	// Header (1) + border top/bottom (2) + status bar (1), plus the search line when open.
	overhead := 4
	if m.searching {
		overhead++
	}
	height := max(m.height-overhead, 5)

	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.search.Width = width - 4

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	if !m.ready {
		return
	}
	m.list.SetContent(renderJobs(m.result.Items, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.view {
	case viewDetail:
		return m.viewDetail()
	case viewPicker:
		return m.picker.view()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf("Jobs (%d matched · page %d/%d)",
		m.result.TotalMatched, m.result.Page, max(m.result.TotalPages, 1)))

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteByte('\n')
	}
	b.WriteString(borderStyle.Width(m.list.Width).Render(m.list.View()))
	b.WriteByte('\n')

	statusText := fmt.Sprintf(" %s   / search  s sort  r remote  v verified  c category  x clear  n/p page  enter detail  q quit",
		m.filterSummary())
	b.WriteString(statusBarStyle.Width(m.width).Render(statusText))
	return b.String()
}

// filterSummary describes the active filters for the status bar.
func (m browseModel) filterSummary() string {
	parts := []string{"sort: " + string(m.spec.Sort)}
	if m.spec.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.spec.SearchText))
	}
	if m.spec.Category != "" {
		parts = append(parts, "category: "+m.spec.Category)
	}
	if m.spec.RemoteOnly {
		parts = append(parts, "remote")
	}
	if m.spec.VerifiedOnly {
		parts = append(parts, "verified")
	}
	return strings.Join(parts, " | ")
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	if m.detailLoading {
		title += "  (loading...)"
	}

	content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" esc/backspace back  ↑/↓ scroll  q quit")

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.CompanyName)
	addField("Location", j.LocationOrEmpty())
	addField("Job ID", j.ID)

	b.WriteByte('\n')
	addField("Salary", j.SalaryLabel)
	addField("Posted", j.PostedLabel)
	if j.PostedAt != nil {
		addField("Posted At", j.PostedAt.Local().Format("2006-01-02 15:04 MST"))
	}
	addField("Type", j.EmploymentType)
	addField("Category", j.Category)
	addField("Experience", j.Experience)
	if len(j.Skills) > 0 {
		addField("Skills", strings.Join(j.Skills, ", "))
	}
	addField("Applicants", fmt.Sprint(j.Applicants))
	addField("Views", fmt.Sprint(j.Views))
	addField("Flags", strings.Join(jobTags(j), "  "))

	if m.detailError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.detailError) + "\n")
	}

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return descDividerStyle.Render(label + fill)
	}
	section := func(label string, text *string) {
		if text == nil {
			return
		}
		plain := normalize.PlainText(*text)
		if plain == "" {
			return
		}
		b.WriteByte('\n')
		b.WriteString(divider("── "+label+" ") + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(plain, wrapWidth)) + "\n")
	}
	section("Description", j.Description)
	section("Requirements", j.Requirements)
	section("Benefits", j.Benefits)

	if similar := query.Similar(m.snap, j, query.DefaultSimilarLimit); len(similar) > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── Similar Jobs ") + "\n\n")
		for _, s := range similar {
			b.WriteString(detailValueStyle.Render(fmt.Sprintf("  • %s · %s", s.Title, s.CompanyName)) + "\n")
		}
	}

	return b.String()
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs match)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		if tags := jobTags(j); len(tags) > 0 {
			b.WriteString(" " + tagStyle.Render(strings.Join(tags, " ")))
		}
		b.WriteByte('\n')

		parts := []string{j.CompanyName}
		if loc := j.LocationOrEmpty(); loc != "" {
			parts = append(parts, loc)
		}
		parts = append(parts, j.SalaryLabel, j.PostedLabel)
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(strings.Join(parts, " · ")))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func jobTags(j model.Job) []string {
	var tags []string
	if j.IsRemote {
		tags = append(tags, "[remote]")
	}
	if j.IsVerified {
		tags = append(tags, "[verified]")
	}
	if j.VisaSponsorship {
		tags = append(tags, "[visa]")
	}
	if j.RelocationAssistance {
		tags = append(tags, "[relocation]")
	}
	return tags
}

func nextSort(k model.SortKey) model.SortKey {
	for i, s := range sortCycle {
		if s == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run launches the interactive browser over snap. detailFn may be nil, in
// which case the detail view shows only what the feed carried.
func Run(snap *model.FeedSnapshot, categories []string, pageSize int, detailFn DetailFunc) error {
	m := newBrowseModel(snap, categories, pageSize, detailFn)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
