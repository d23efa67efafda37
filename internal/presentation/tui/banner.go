package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Tally.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient from amber to violet
	lines := []struct {
		text  string
		color string
	}{
		{" _______    _ _       ", "#fbbf24"},
		{"|__   __|  | | |      ", "#fb923c"},
		{"   | | __ _| | |_   _ ", "#f97316"},
		{"   | |/ _` | | | | | |", "#f43f5e"},
		{"   | | (_| | | | |_| |", "#ec4899"},
		{"   |_|\\__,_|_|_|\\__, |", "#d946ef"},
		{"                 __/ |", "#a855f7"},
		{"                |___/ ", "#8b5cf6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Printf("  prompt/response labeling · v%s\n\n", strings.TrimSpace(version))
}
