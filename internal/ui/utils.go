package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ToTitle converts a role identifier like "qa" or "system_design" into a
// display label ("Qa" stays short on purpose; underscores become spaces).
func ToTitle(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// TermWidth returns the terminal width, falling back to 80 when stdout is
// not a terminal.
func TermWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
