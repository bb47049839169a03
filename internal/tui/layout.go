package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"altflow/internal/gesture"
	"altflow/internal/model"
	"altflow/internal/outline"
)

const (
	// headerHeight is the breadcrumb line above the outline.
	headerHeight = 1
	indentWidth  = 2
	// gutterWidth holds the keyboard cursor marker.
	gutterWidth = 1
)

type outlineRow struct {
	id          string
	title       string
	depth       int
	hasChildren bool
	match       bool
}

// Columns of a row in left-to-right order. RTL rendering mirrors them.
func (r outlineRow) bulletLeft() int {
	return gutterWidth + r.depth*indentWidth
}

func (r outlineRow) textLeft(gs glyphSet) int {
	return r.bulletLeft() + cellWidth(gs.bullet(r.hasChildren)) + 1
}

func flattenDocument(t *outline.Tree, rootID string) []outlineRow {
	if t == nil {
		return nil
	}
	var out []outlineRow
	t.Walk(rootID, func(n *model.Node, depth int) bool {
		out = append(out, outlineRow{
			id:          n.ID,
			title:       n.Title,
			depth:       depth,
			hasChildren: len(n.Children) > 0,
			match:       n.Match,
		})
		return true
	})
	return out
}

// screenGeometry answers gesture geometry queries from the last rendered layout. Rows
// scrolled out of view have no rectangle.
type screenGeometry struct {
	rects map[string]gesture.Rect
}

func (g *screenGeometry) Rect(id string) (gesture.Rect, bool) {
	if g == nil {
		return gesture.Rect{}, false
	}
	r, ok := g.rects[id]
	return r, ok
}

// layoutRows computes one cell-high rectangle per visible row in logical (left-to-right)
// columns.
func layoutRows(rows []outlineRow, offset, listHeight int, gs glyphSet) *screenGeometry {
	g := &screenGeometry{rects: make(map[string]gesture.Rect, listHeight)}
	for i := offset; i < len(rows) && i < offset+listHeight; i++ {
		top := float64(headerHeight + i - offset)
		g.rects[rows[i].id] = gesture.Rect{
			Top:    top,
			Left:   float64(rows[i].textLeft(gs)),
			Bottom: top + 1,
			Height: 1,
		}
	}
	return g
}

// fitLine cuts s to width display cells (ANSI-aware) and pads it; alignRight pads on the
// left instead.
func fitLine(s string, width int, alignRight bool) string {
	if width <= 0 {
		return ""
	}
	if w := xansi.StringWidth(s); w > width {
		switch {
		case width == 1:
			s = xansi.Cut(s, 0, 1)
		case alignRight:
			s = "…" + xansi.Cut(s, w-width+1, w)
		default:
			s = xansi.Truncate(s, width, "…")
		}
	}
	pad := width - xansi.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if alignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
