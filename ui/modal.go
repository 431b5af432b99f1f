package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalType determines the title color of a modal.
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// modalWidthFor shrinks the preferred width to fit the terminal.
func modalWidthFor(preferred, width int) int {
	w := preferred
	if width < w+10 {
		w = width - 10
	}
	if w < 10 {
		w = 10
	}
	return w
}

// renderModalBox builds the borderless three-section layout: a title, a
// body under a top rule and a footer under another.
func renderModalBox(title string, lines []string, footer string, modalType ModalType, modalWidth int) string {
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(title)

	body := make([]string, 0, len(lines)+2)
	body = append(body, strings.Repeat(" ", modalWidth))
	body = append(body, lines...)
	body = append(body, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(body, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	return strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
}

// RenderThreeSectionModal centers a modal box in the terminal.
func RenderThreeSectionModal(title string, lines []string, footer string, modalType ModalType, modalWidth, width, height int) string {
	box := renderModalBox(title, lines, footer, modalType, modalWidth)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// RenderAcknowledgeModal shows a message that only needs Enter to dismiss.
func RenderAcknowledgeModal(title, message, footer string, modalType ModalType, width, height int) string {
	modalWidth := modalWidthFor(60, width)
	style := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, style.Render(line))
	}
	return RenderThreeSectionModal(title, lines, footer, modalType, modalWidth, width, height)
}

// centerTextLine pads text on both sides to width.
func centerTextLine(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	leftPad := (width - textWidth) / 2
	rightPad := width - textWidth - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}
