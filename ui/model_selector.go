package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"tessa/model"
)

// modelSource lets fuzzy match on "id name provider".
type modelSource []model.ModelSummary

func (s modelSource) String(i int) string {
	return s[i].ID + " " + s[i].Name + " " + s[i].Provider
}

func (s modelSource) Len() int { return len(s) }

// filterModels keeps models matching query, best match first.
func filterModels(models []model.ModelSummary, query string) []model.ModelSummary {
	if strings.TrimSpace(query) == "" {
		return models
	}
	matches := fuzzy.FindFrom(query, modelSource(models))
	out := make([]model.ModelSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, models[m.Index])
	}
	return out
}

type modelSelector struct {
	visible    bool
	selected   int
	filterMode bool
	filter     textinput.Model
	list       []model.ModelSummary
	// remote is the count of models the selected entry's provider offers,
	// filled in on request.
	remote string
}

func newModelSelector() modelSelector {
	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.CharLimit = 64
	return modelSelector{filter: filter}
}

func (s *modelSelector) open(models []model.ModelSummary, current string) {
	s.visible = true
	s.filterMode = false
	s.filter.SetValue("")
	s.filter.Blur()
	s.remote = ""
	s.list = models
	s.selected = 0
	for i, m := range models {
		if m.ID == current {
			s.selected = i
		}
	}
}

func (s *modelSelector) refilter(models []model.ModelSummary) {
	s.list = filterModels(models, s.filter.Value())
	if s.selected >= len(s.list) {
		s.selected = max(len(s.list)-1, 0)
	}
}

func (s *modelSelector) current() (model.ModelSummary, bool) {
	if s.selected < 0 || s.selected >= len(s.list) {
		return model.ModelSummary{}, false
	}
	return s.list[s.selected], true
}

func renderModelSelector(s modelSelector, total int, currentID string, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	maxLines := height - 14
	if maxLines < 3 {
		maxLines = 3
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Select Chat Model")

	header := fmt.Sprintf("%d models", total)
	if s.filterMode {
		header = s.filter.View()
	} else if len(s.list) != total {
		header = fmt.Sprintf("%d of %d models", len(s.list), total)
	}
	if s.remote != "" {
		header += "  " + DimStyle.Render(s.remote)
	}
	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var lines []string
	if len(s.list) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render("No matches found"))
	}

	start := 0
	if s.selected >= maxLines {
		start = s.selected - maxLines + 1
	}
	for i := start; i < len(s.list) && i < start+maxLines; i++ {
		m := s.list[i]
		indicator := "  "
		if i == s.selected {
			indicator = "▶ "
		}
		name := indicator + runewidth.Truncate(m.ID, modalWidth-30, "…")
		if i == s.selected {
			name = SelectedStyle.Render(name)
		}
		line := name + "  " + DimStyle.Render(fmt.Sprintf("%s · %s", m.Provider, m.Type))
		if m.ID == currentID {
			line += AssistantStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}

	footer := FormatFooter("↑/↓", "Navigate", "Enter", "Select", "/", "Filter", "i", "Provider models", "Esc", "Close")
	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	body := lipgloss.NewStyle().Width(modalWidth).Render(strings.Join(lines, "\n"))
	content := strings.Join([]string{titleSection, headerSection, body, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
