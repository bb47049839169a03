package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The palette must stay readable on light and dark backgrounds, so every color is an
// AdaptiveColor and the background choice follows the darkmode setting.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted       = ac("240", "243")
	colorAccent      = ac("27", "62")
	colorMatchFg     = ac("130", "214")
	colorSelectedBg  = ac("#e9e9e9", "#262626")
	colorSelectedFg  = ac("235", "255")
	colorDropFg      = ac("28", "78")
	colorErrorFg     = ac("160", "203")
	colorHeaderFg    = ac("235", "252")
	colorHeaderMuted = ac("240", "245")
)

type styles struct {
	header   lipgloss.Style
	crumb    lipgloss.Style
	row      lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	grabbed  lipgloss.Style
	match    lipgloss.Style
	drop     lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	bullet   lipgloss.Style
}

func newStyles() styles {
	st := styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(colorHeaderFg),
		crumb:    lipgloss.NewStyle().Foreground(colorHeaderMuted),
		row:      lipgloss.NewStyle(),
		cursor:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		selected: lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg),
		grabbed:  lipgloss.NewStyle().Foreground(colorMuted),
		match:    lipgloss.NewStyle().Foreground(colorMatchFg).Bold(true),
		drop:     lipgloss.NewStyle().Foreground(colorDropFg).Bold(true),
		status:   lipgloss.NewStyle().Foreground(colorMuted),
		err:      lipgloss.NewStyle().Foreground(colorErrorFg),
		bullet:   lipgloss.NewStyle().Foreground(colorAccent),
	}
	if lipgloss.HasDarkBackground() {
		st.grabbed = st.grabbed.Faint(true)
		st.status = st.status.Faint(true)
	}
	return st
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which can turn colors off in a TUI by
// accident; here only NO_COLOR is honored.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color") && profile != termenv.TrueColor:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette.
//
// ALTFLOW_TUI_THEME=light|dark wins over the darkmode setting; "auto" or unset defers to it.
func applyThemePreference(darkMode bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ALTFLOW_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(darkMode)
	}
}
