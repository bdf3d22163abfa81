// Package requestwizard implements the Bubble Tea wizard that collects a
// storage request and files it with the backend.
package requestwizard

import (
	"charm.land/lipgloss/v2"

	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
)

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bac2de")).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6adc8"))

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#585b70"))
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i]
		desc := pairs[i+1]

		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}

		result += styleHintKey.Render(key) + " " + styleHintDesc.Render(desc)
	}

	return result
}

// renderNotice renders a dismissible one-line notice in the given status
// color, prefixed with an icon.
func renderNotice(icon, text, color string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Render(icon + " " + text)
}

// labelStyle returns the standard field label style.
func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().FgBase))
}

// mutedStyle returns the muted helper-text style.
func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().FgMuted))
}

// cursorRow renders one selectable row, highlighting it when selected.
func cursorRow(label string, selected bool) string {
	t := theme.Current()
	if selected {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true).
			Render("❯ " + label)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Render("  " + label)
}

// checkboxRow renders one toggleable row with a checked state.
func checkboxRow(label string, checked, selected bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	return cursorRow(box+" "+label, selected)
}
