package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// Prompt and response bodies are authored as markdown in the dataset, so
// they get the full terminal treatment.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer passes content through untouched. Used when stdout is not
// a terminal (pipes, CI).
func PlainRenderer() func(string) (string, error) {
	return func(markdown string) (string, error) {
		return markdown + "\n", nil
	}
}

// IsTerminal reports whether stdout is attached to a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
