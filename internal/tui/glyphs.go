package tui

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Glyph choice matters for geometry: the node text starts after the bullet, so its
// display width feeds the left edge the drop resolver compares against.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

func glyphPreference() glyphSet {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ALTFLOW_TUI_GLYPHS"))) {
	case "ascii":
		return glyphSetASCII
	default:
		return glyphSetUnicode
	}
}

func (gs glyphSet) bullet(hasChildren bool) string {
	switch {
	case gs == glyphSetASCII && hasChildren:
		return "+"
	case gs == glyphSetASCII:
		return "*"
	case hasChildren:
		return "◉"
	default:
		return "•"
	}
}

func (gs glyphSet) cursor() string {
	if gs == glyphSetASCII {
		return ">"
	}
	return "›"
}

func (gs glyphSet) crumbSep() string {
	if gs == glyphSetASCII {
		return " > "
	}
	return " › "
}

// dropMarker is appended to the row a drop would land on.
func (gs glyphSet) dropMarker(p string) string {
	if gs == glyphSetASCII {
		switch p {
		case "TOP":
			return "^ above"
		case "BOTTOM":
			return "v below"
		default:
			return "-> inside"
		}
	}
	switch p {
	case "TOP":
		return "↑ above"
	case "BOTTOM":
		return "↓ below"
	default:
		return "→ inside"
	}
}

func cellWidth(s string) int {
	return runewidth.StringWidth(s)
}
