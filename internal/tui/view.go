package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	lines := make([]string, 0, m.height)
	lines = append(lines, m.headerLine())

	lh := m.listHeight()
	for i := m.offset; i < m.offset+lh; i++ {
		if i < len(m.rows) {
			lines = append(lines, m.rowLine(i))
			continue
		}
		lines = append(lines, "")
	}
	if len(m.rows) == 0 {
		lines[headerHeight] = m.st.status.Render(fitLine("  (empty)", m.width, m.rtl()))
	}

	lines = append(lines, m.statusLine())
	lines = append(lines, m.notesLines()...)
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) rtl() bool {
	return m.sess.Settings().RTL
}

func (m Model) headerLine() string {
	doc, id := m.sess.Document()
	var crumbs []string
	for cur, ok := doc.Find(id); ok; cur, ok = doc.Parent(cur.ID) {
		crumbs = append([]string{cur.Title}, crumbs...)
	}
	if len(crumbs) == 0 {
		return ""
	}
	if m.opts.Name != "" && doc == m.sess.Home() {
		crumbs[0] = m.opts.Name
	}
	if m.rtl() {
		for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
			crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
		}
	}
	last := len(crumbs) - 1
	if m.rtl() {
		last = 0
	}
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		if i == last {
			parts[i] = m.st.header.Render(c)
		} else {
			parts[i] = m.st.crumb.Render(c)
		}
	}
	return fitLine(strings.Join(parts, m.st.crumb.Render(m.gs.crumbSep())), m.width, m.rtl())
}

func (m Model) rowLine(i int) string {
	r := m.rows[i]
	gutter := " "
	if r.id == m.cursorID {
		gutter = m.st.cursor.Render(m.gs.cursor())
	}
	bullet := m.st.bullet.Render(m.gs.bullet(r.hasChildren))
	indent := strings.Repeat(" ", r.depth*indentWidth)

	title := r.title
	grabbed, dragging := m.sess.Grabbed()
	switch {
	case dragging && grabbed == r.id:
		title = m.st.grabbed.Render(title)
	case m.sess.IsSelected(r.id):
		title = m.st.selected.Render(title)
	case r.match:
		title = m.st.match.Render(title)
	}

	marker := ""
	if st, ok := m.sess.DropStatus(); ok && dragging && st.Target == r.id {
		marker = m.st.drop.Render(m.gs.dropMarker(st.Placement.String()))
	}

	if m.rtl() {
		if marker != "" {
			marker += " "
		}
		return fitLine(marker+title+" "+bullet+indent+gutter, m.width, true)
	}
	if marker != "" {
		marker = " " + marker
	}
	return fitLine(gutter+indent+bullet+" "+title+marker, m.width, false)
}

func (m Model) statusLine() string {
	if m.searching {
		return fitLine(m.input.View(), m.width, false)
	}
	msg := m.status
	if grabbed, ok := m.sess.Grabbed(); ok {
		msg = fmt.Sprintf("moving %q", m.title(grabbed))
		if p := m.shared.pointer; p != nil {
			msg += fmt.Sprintf(" at %.0f,%.0f", p.X, p.Y)
		}
	}
	style := m.st.status
	if m.statusErr {
		style = m.st.err
	}
	return style.Render(fitLine(msg, m.width, m.rtl()))
}

// notesLines renders the cursor node's notes into a fixed-height footer.
func (m Model) notesLines() []string {
	out := make([]string, notesHeight)
	doc, _ := m.sess.Document()
	n, ok := doc.Find(m.cursorID)
	if !ok || strings.TrimSpace(n.Notes) == "" {
		return out
	}
	rendered := strings.Split(renderNotes(n.Notes, m.width), "\n")
	for i := 0; i < notesHeight && i < len(rendered); i++ {
		out[i] = fitLine(rendered[i], m.width, false)
	}
	if len(rendered) > notesHeight {
		out[notesHeight-1] = fitLine(lipgloss.NewStyle().Faint(true).Render("…"), m.width, false)
	}
	return out
}
