package common

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	COLOR_GREY      = "241"
	COLOR_DARK_GREY = "238"
	COLOR_MAGENTA   = "170"
	COLOR_LIGHTBLUE = "69"
	COLOR_PURPLE    = "#7D56F4"
	COLOR_RED       = "196"
	COLOR_GREEN     = "42"
	COLOR_BLUE      = "33"
	COLOR_ORANGE    = "214"
	COLOR_YELLOW    = "220"
)

var (
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREY)).Padding(0, 2)
	CaptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_MAGENTA)).Padding(2)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_RED)).Bold(true)
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_ORANGE))
	OkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREEN))
)

// serviceColors maps each known contact-form service category to a stable
// foreground/background pair for its badge.
var serviceColors = map[string][2]string{
	"consulting":    {"231", COLOR_PURPLE},
	"developpement": {"231", COLOR_BLUE},
	"design":        {"16", COLOR_MAGENTA},
	"marketing":     {"16", COLOR_ORANGE},
	"support":       {"16", COLOR_GREEN},
	"autre":         {"231", COLOR_DARK_GREY},
}

var defaultServiceColors = [2]string{"231", COLOR_GREY}

// ServiceColorPair returns the badge colors for a service category. It is
// total: unknown or empty categories fall back to the default pair.
func ServiceColorPair(service string) (string, string) {
	key := strings.ToLower(strings.TrimSpace(service))
	if pair, ok := serviceColors[key]; ok {
		return pair[0], pair[1]
	}
	return defaultServiceColors[0], defaultServiceColors[1]
}

// ServiceStyle renders a service category as a colored badge.
func ServiceStyle(service string) lipgloss.Style {
	fg, bg := ServiceColorPair(service)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}

func DefaultWindowWidth(width int) int {
	return width - 10
}

func DefaultWindowHeight(heigth int) int {
	return heigth - 10
}
