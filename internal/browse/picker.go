package browse

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobfeed/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// allCategories is the picker entry that clears the category filter.
const allCategories = "All categories"

// picker selects one category facet. Index 0 clears the filter.
type picker struct {
	items  []model.FacetCount
	cursor int
}

func newPicker(categories []model.FacetCount, current string) picker {
	p := picker{items: append([]model.FacetCount{{Name: allCategories}}, categories...)}
	for i, c := range p.items {
		if i > 0 && c.Name == current {
			p.cursor = i
		}
	}
	return p
}

// selected returns the category to filter on, "" for all.
func (p picker) selected() string {
	if p.cursor == 0 {
		return ""
	}
	return p.items[p.cursor].Name
}

func (p picker) update(msg tea.KeyMsg) picker {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	}
	return p
}

func (p picker) view() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Select a category"))
	b.WriteByte('\n')

	for i, c := range p.items {
		label := c.Name
		if i > 0 {
			label = fmt.Sprintf("%s (%d)", c.Name, c.Count)
		}
		if i == p.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + label))
		} else {
			b.WriteString(pickerItemStyle.Render(label))
		}
		b.WriteByte('\n')
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter select  esc cancel"))
	return b.String()
}
