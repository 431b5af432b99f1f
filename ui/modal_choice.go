package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// choiceState is an open choice request. It is answered exactly once.
type choiceState struct {
	prompt   string
	options  []string
	selected int
	reply    chan<- int
}

func (c *choiceState) move(delta int) {
	c.selected = (c.selected + delta + len(c.options)) % len(c.options)
}

func (c *choiceState) answer(idx int) {
	c.reply <- idx
}

func renderChoiceBox(c *choiceState, modalWidth int) string {
	promptStyle := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(c.prompt, "\n") {
		lines = append(lines, promptStyle.Render(line))
	}
	lines = append(lines, "")
	for i, opt := range c.options {
		label := fmt.Sprintf("  %d. %s", i+1, opt)
		if i == c.selected {
			label = SelectedStyle.Render(fmt.Sprintf("▶ %d. %s", i+1, opt))
		}
		lines = append(lines, centerTextLine(label, modalWidth))
	}

	footer := FormatFooter("↑/↓", "Navigate", "Enter", "Select", "Esc", "Dismiss")
	return renderModalBox("Tessa", lines, footer, ModalTypeWarning, modalWidth)
}

// RenderChoiceModal centers an open choice in the terminal.
func RenderChoiceModal(c *choiceState, width, height int) string {
	box := renderChoiceBox(c, modalWidthFor(60, width))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
