package apply

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between the original and proposed
// content of name.
func UnifiedDiff(name, original, proposed string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(proposed),
		FromFile: name + " (original)",
		ToFile:   name + " (AI suggestion)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}
	return text, nil
}

// DiffFiles is UnifiedDiff over two files on disk, as handed to
// Host.ShowDiff.
func DiffFiles(leftPath, rightPath, name string) (string, error) {
	left, err := os.ReadFile(leftPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", leftPath, err)
	}
	right, err := os.ReadFile(rightPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rightPath, err)
	}
	return UnifiedDiff(name, string(left), string(right))
}
