package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"altflow/internal/gesture"
)

// Mouse gestures: pressing a bullet starts a drag that moves the node, pressing the
// text starts a range selection over its siblings.

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.press(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		m.motion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		m.release(msg.X, msg.Y)
	}
}

func (m *Model) rowAt(y int) (int, bool) {
	i := y - headerHeight + m.offset
	if y < headerHeight || i < m.offset || i >= m.offset+m.listHeight() || i >= len(m.rows) {
		return 0, false
	}
	return i, true
}

// logicalCol maps a screen column to the left-to-right column space of the layout.
func (m *Model) logicalCol(x int) int {
	if m.sess.Settings().RTL {
		return m.width - 1 - x
	}
	return x
}

// pointer returns the gesture point for a cell. Terminals only report whole cells, so
// the sample sits at the cell centre, nudged by bias rows.
func (m *Model) pointer(x, y int, bias float64) gesture.Point {
	px := float64(x) + 0.5
	if m.sess.Settings().RTL {
		px = float64(m.width) - px
	}
	return gesture.Point{X: px, Y: float64(y) + 0.5 + bias}
}

func (m *Model) press(x, y int) {
	i, ok := m.rowAt(y)
	if !ok {
		m.sess.ClearRangeSelect()
		return
	}
	r := m.rows[i]
	col := m.logicalCol(x)
	textLeft := r.textLeft(m.gs)
	switch {
	case col >= r.bulletLeft() && col < textLeft-1:
		m.cursorID = r.id
		if err := m.sess.StartDrag(r.id, m.shared.trackPointer); err != nil {
			m.setError(err)
		}
	case col >= textLeft-1:
		m.cursorID = r.id
		m.sess.ClearRangeSelect()
		if err := m.sess.StartRangeSelect(r.id); err != nil {
			m.setError(err)
			return
		}
		m.rangeRow = y
	default:
		m.sess.ClearRangeSelect()
	}
}

func (m *Model) motion(x, y int) {
	switch {
	case m.sess.IsDragging():
		m.sess.MoveDrag(m.pointer(x, y, 0))
	case m.sess.IsRangeSelecting():
		// A row counts as crossed once the pointer enters it, in either direction.
		bias := 0.0
		switch {
		case y > m.rangeRow:
			bias = 0.25
		case y < m.rangeRow:
			bias = -0.25
		}
		m.sess.MoveRangeSelect(m.pointer(x, y, bias))
	}
}

func (m *Model) release(x, y int) {
	switch {
	case m.sess.IsDragging():
		m.sess.MoveDrag(m.pointer(x, y, 0))
		grabbed, _ := m.sess.Grabbed()
		st, resolved := m.sess.DropStatus()
		if err := m.sess.EndDrag(false); err != nil {
			m.setError(err)
			return
		}
		if resolved && st.Target != grabbed {
			m.setStatus(fmt.Sprintf("moved %q %s %q", m.title(grabbed), placementVerb(st.Placement), m.title(st.Target)))
		}
	case m.sess.IsRangeSelecting():
		m.motion(x, y)
		m.sess.StopRangeSelect()
		if n := len(m.sess.Selection()); n > 0 {
			m.setStatus(fmt.Sprintf("%d selected", n))
		}
	}
}

func placementVerb(p gesture.Placement) string {
	switch p {
	case gesture.PlacementTop:
		return "above"
	case gesture.PlacementBottom:
		return "below"
	default:
		return "into"
	}
}
