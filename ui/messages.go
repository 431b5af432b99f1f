package ui

import (
	"tessa/apply"
	"tessa/model"
)

// Messages posted by Host from session goroutines.
type (
	chatMessageMsg struct{ msg model.Message }
	loadingMsg     bool
	resetChatMsg   struct{}
	modelsMsg      []model.ModelSummary

	// choiceRequestMsg asks the user to pick one option. The index, or -1
	// when dismissed, goes to reply exactly once.
	choiceRequestMsg struct {
		prompt  string
		options []string
		reply   chan<- int
	}

	diffMsg struct {
		title string
		text  string
	}

	notifyMsg struct {
		level apply.Level
		text  string
	}
)

// Messages produced by the view's own commands.
type (
	markdownRenderedMsg struct {
		id       string
		width    int
		rendered string
	}

	modelSetMsg struct {
		id  string
		err error
	}

	turnDoneMsg struct{}

	fimDoneMsg struct{ err error }
)
