// Package tui provides the interactive module picker.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors tuned for dark terminals.
var (
	colorPrimary    = lipgloss.Color("205")
	colorSuccess    = lipgloss.Color("42")
	colorWarning    = lipgloss.Color("220")
	colorMuted      = lipgloss.Color("245")
	colorHeader     = lipgloss.Color("220")
	colorSelectedBg = lipgloss.Color("236")
	colorSelectedFg = lipgloss.Color("255")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader).
			Padding(0, 1)

	includedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	excludedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	searchStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	inputFocusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

// Indicator returns the marker shown next to a module.
func Indicator(included bool) string {
	if included {
		return includedStyle.Render("●")
	}
	return excludedStyle.Render("○")
}

// StatusText returns the status column text for a module.
func StatusText(included bool) string {
	if included {
		return "● Included"
	}
	return "○ Excluded"
}

// WrapHelpText wraps help text to fit within maxWidth, splitting on bullet separators.
// If maxWidth is 0 or negative, returns the original text.
func WrapHelpText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return helpDescStyle.Render(text)
	}

	const separator = " • "
	parts := strings.Split(text, separator)

	var lines []string
	var current string
	for _, part := range parts {
		switch {
		case current == "":
			current = part
		case lipgloss.Width(current+separator+part) > maxWidth:
			lines = append(lines, current)
			current = part
		default:
			current += separator + part
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	for i, line := range lines {
		lines[i] = helpDescStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
