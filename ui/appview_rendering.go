package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tessa/apply"
	"tessa/config"
	"tessa/model"
	"tessa/render"
)

func (a AppView) contentWidth() int {
	return max(a.width-2, 10)
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.entries) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Ask anything or type / for commands."))
		return
	}

	wrap := lipgloss.NewStyle().Width(a.contentWidth())
	var content strings.Builder
	for _, e := range a.entries {
		timestamp := DimStyle.Render(e.msg.Timestamp.Format("[15:04]"))

		switch e.msg.Role {
		case model.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), wrap.Render(e.msg.Text)))

		case model.RoleAssistant:
			body := e.rendered
			if body == "" {
				body = wrap.Render(e.msg.Raw)
			}
			fmt.Fprintf(&content, "%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Tessa"), body)

		default:
			fmt.Fprintf(&content, "%s %s\n\n", timestamp, DimStyle.Render(wrap.Render(e.msg.Text)))
		}
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	fmt.Fprintf(&result, "%s %s %s\n", bar, timestamp, role)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&result, "%s %s\n", bar, line)
	}
	result.WriteString("\n")
	return result.String()
}

func (a AppView) renderMarkdownAsync(msg model.Message, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := render.Terminal(msg.Raw, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] rendered %d chars in %v", len(msg.Raw), time.Since(start))
		}
		return markdownRenderedMsg{id: msg.ID, width: width, rendered: rendered}
	}
}

// renderPending re-renders assistant messages whose rendering does not
// match the current width.
func (a AppView) renderPending() tea.Cmd {
	width := a.contentWidth()
	var cmds []tea.Cmd
	for _, e := range a.entries {
		if e.msg.Role == model.RoleAssistant && e.width != width {
			cmds = append(cmds, a.renderMarkdownAsync(e.msg, width))
		}
	}
	return tea.Batch(cmds...)
}

func (a AppView) renderHeader() string {
	title := TitleStyle.Render("Tessa")
	if a.version != "" {
		title += DimStyle.Render(" " + a.version)
	}

	file := "no file"
	if a.doc != nil {
		file = fmt.Sprintf("%s:%d", filepath.Base(a.doc.Path), a.doc.Cursor.Line+1)
	}
	info := fmt.Sprintf("%s · %s", a.currentModel, file)
	room := a.width - lipgloss.Width(title) - 3
	if room > 0 {
		info = runewidth.Truncate(info, room, "…")
		return title + "  " + DimStyle.Render(info)
	}
	return title
}

func (a AppView) renderSuggestions() string {
	if len(a.suggestions) == 0 {
		return ""
	}
	var lines []string
	for i, c := range a.suggestions {
		line := fmt.Sprintf("  %-14s %s", c.Name, c.Description)
		line = runewidth.Truncate(line, a.width, "…")
		if i == a.suggestionIdx {
			line = SelectedStyle.Render(line)
		} else {
			line = DimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a AppView) renderStatus() string {
	if a.loading {
		return a.spinner.View() + " " + DimStyle.Render("Thinking...")
	}
	if a.status == "" {
		return StatusStyle.Render(FormatFooter("Enter", "Send", "F1", "Help", "Ctrl+C", "Quit"))
	}

	style := StatusStyle
	switch a.statusLevel {
	case apply.LevelWarning:
		style = lipgloss.NewStyle().Foreground(warningColor)
	case apply.LevelError:
		style = lipgloss.NewStyle().Foreground(dangerColor)
	}
	return style.Render(runewidth.Truncate(a.status, a.width, "…"))
}

// renderDiffReview shows the diff under review with the pending choice
// beneath it.
func (a AppView) renderDiffReview() string {
	box := renderChoiceBox(a.choice, modalWidthFor(60, a.width))
	title := TitleStyle.Render(runewidth.Truncate(a.diff.title, a.width, "…"))

	vp := a.diffView
	vp.Width = a.width
	vp.Height = max(a.height-lipgloss.Height(box)-2, 1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		vp.View(),
		lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box),
	)
}

func colorDiff(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = TitleStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = diffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = diffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = diffDelStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
