package command

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Command describes one slash command for suggestion popups.
type Command struct {
	Name        string `json:"cmd"`
	Description string `json:"description"`
}

// Commands lists the supported slash commands in display order.
var Commands = []Command{
	{Name: FIM, Description: "Fill in the middle at cursor"},
	{Name: Explain, Description: "Explain selected code or context"},
	{Name: UpdateFile, Description: "Suggest file changes (e.g., /update_file refactor this)"},
}

// Suggest returns the commands matching what the user has typed so far.
// Suggestions are only offered while the input is a single slash token.
func Suggest(input string) []Command {
	if !strings.HasPrefix(input, "/") || strings.ContainsAny(input, " \t\n") {
		return nil
	}

	query := strings.ToLower(strings.TrimPrefix(input, "/"))
	if query == "" {
		return append([]Command(nil), Commands...)
	}

	targets := make([]string, len(Commands))
	for i, c := range Commands {
		targets[i] = strings.TrimPrefix(c.Name, "/")
	}

	matches := fuzzy.Find(query, targets)
	out := make([]Command, len(matches))
	for i, m := range matches {
		out[i] = Commands[m.Index]
	}
	return out
}
