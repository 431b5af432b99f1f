package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tessa/command"
)

func renderHelpModal(width, height int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(successColor).Render("Tessa - Keyboard Shortcuts")
	blue := lipgloss.NewStyle().Foreground(accentColor)

	headings := []string{"## Chat", "## Actions"}
	var columns []string
	for i, group := range keys.groups() {
		lines := []string{blue.Render(headings[i])}
		for _, b := range group {
			lines = append(lines, fmt.Sprintf("• %-11s %s", b.Help().Key, b.Help().Desc))
		}
		columns = append(columns, lipgloss.NewStyle().Width(40).PaddingLeft(4).Render(strings.Join(lines, "\n")))
	}

	cmds := []string{blue.Render("## Commands")}
	for _, c := range command.Commands {
		cmds = append(cmds, fmt.Sprintf("• %-13s %s", c.Name, c.Description))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		lipgloss.NewStyle().PaddingLeft(4).Render(strings.Join(cmds, "\n")),
		"",
		DimStyle.Render("Press F1 or Esc to close"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
