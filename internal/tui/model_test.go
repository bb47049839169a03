package tui

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"altflow/internal/gesture"
	"altflow/internal/outline"
	"altflow/internal/watcher"
)

// Layout of the fixture at width 80 (row y on screen, bullet column, text column):
//
//	y=1 A   bullet 1 text 3
//	y=2 A1  bullet 3 text 5
//	y=3 A2  bullet 3 text 5
//	y=4 B   bullet 1 text 3
//	y=5 C   bullet 1 text 3
func newTestModel(t *testing.T) (Model, *gesture.Session, map[string]string) {
	t.Helper()
	t.Setenv("ALTFLOW_TUI_GLYPHS", "")
	t.Setenv("ALTFLOW_TUI_THEME", "")
	tr := outline.New(outline.HomeTitle, "n")
	ids := map[string]string{}
	add := func(parent, title, notes string) {
		pid := tr.RootID
		if parent != "" {
			pid = ids[parent]
		}
		n, err := tr.Add(pid, title, notes)
		if err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
		ids[title] = n.ID
	}
	add("", "A", "some *notes*")
	add("A", "A1", "")
	add("A", "A2", "")
	add("", "B", "")
	add("", "C", "")

	sess := gesture.NewSession(tr, nil)
	m := New(sess, Options{Name: "plan.md"})
	t.Cleanup(m.Close)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, sess, ids
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func drag(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func childTitles(tr *outline.Tree, id string) []string {
	var out []string
	for _, c := range tr.ChildrenOf(id) {
		out = append(out, c.Title)
	}
	return out
}

func TestMouse_BulletDragMovesNode(t *testing.T) {
	m, sess, ids := newTestModel(t)

	m = send(t, m, press(1, 5))
	if grabbed, ok := sess.Grabbed(); !ok || grabbed != ids["C"] {
		t.Fatalf("expected C to be grabbed, got %q %v", grabbed, ok)
	}
	m = send(t, m, drag(0, 2))
	if !strings.Contains(m.View(), "below") {
		t.Fatalf("expected a drop marker while dragging:\n%s", m.View())
	}
	m = send(t, m, release(0, 2))

	home := sess.Home()
	if got := childTitles(home, ids["A"]); !reflect.DeepEqual(got, []string{"A1", "C", "A2"}) {
		t.Fatalf("expected C dropped below A1, got %v", got)
	}
	if !strings.Contains(m.status, `moved "C" below "A1"`) {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.rows[2].id != ids["C"] || m.rows[2].depth != 1 {
		t.Fatalf("expected layout to follow the move, got %+v", m.rows[2])
	}
}

func TestMouse_DragRightOfTextNests(t *testing.T) {
	m, sess, ids := newTestModel(t)
	m = send(t, m, press(1, 5), drag(4, 5), release(10, 4))
	if got := childTitles(sess.Home(), ids["B"]); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("expected C nested under B, got %v", got)
	}
	_ = m
}

func TestMouse_TextDragSelectsSiblings(t *testing.T) {
	m, sess, ids := newTestModel(t)

	m = send(t, m, press(5, 1), drag(5, 3), drag(5, 4))
	if !sess.IsSelected(ids["A"]) || !sess.IsSelected(ids["B"]) || sess.IsSelected(ids["C"]) {
		t.Fatalf("expected [A B], got %v", sess.Selection())
	}
	m = send(t, m, release(5, 4))
	if sess.IsRangeSelecting() {
		t.Fatalf("expected range select to end on release")
	}

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })
	m = send(t, m, keys("y"))
	want := "- A\n  - A1\n  - A2\n- B\n"
	if copied != want {
		t.Fatalf("unexpected clipboard text:\n%q\nwant:\n%q", copied, want)
	}

	// Back up over the anchor shrinks to the anchor alone.
	m = send(t, m, press(5, 1), drag(5, 4), drag(5, 1))
	if got := sess.Selection(); !reflect.DeepEqual(got, []string{ids["A"]}) {
		t.Fatalf("expected [A], got %v", got)
	}
	m = send(t, m, release(5, 1), tea.KeyMsg{Type: tea.KeyEsc})
	if len(sess.Selection()) != 0 {
		t.Fatalf("expected esc to clear the selection")
	}
}

func TestMouse_RTLMirrorsColumns(t *testing.T) {
	m, sess, ids := newTestModel(t)
	m = send(t, m, keys("R"))
	if !sess.Settings().RTL {
		t.Fatalf("expected RTL on")
	}
	// Logical column 1 is screen column 78 at width 80.
	m = send(t, m, press(78, 5), drag(79, 2), release(79, 2))
	if got := childTitles(sess.Home(), ids["A"]); !reflect.DeepEqual(got, []string{"A1", "C", "A2"}) {
		t.Fatalf("expected mirrored drag to drop C below A1, got %v", got)
	}
	if line := m.rowLine(0); !strings.HasSuffix(line, "A ◉ ") || !strings.HasPrefix(line, "    ") {
		t.Fatalf("expected right-aligned row, got %q", line)
	}
}

func TestKeys_NudgeAndZoom(t *testing.T) {
	m, sess, ids := newTestModel(t)
	home := sess.Home()

	m = send(t, m, keys("j"), keys("j"), keys("j"))
	if m.cursorID != ids["B"] {
		t.Fatalf("expected cursor on B, got %s", m.cursorID)
	}
	m = send(t, m, keys("K"))
	if got := childTitles(home, home.RootID); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Fatalf("expected B moved up, got %v", got)
	}
	if m.cursorID != ids["B"] {
		t.Fatalf("expected cursor to stay on B")
	}

	m = send(t, m, keys("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if _, id := sess.Document(); id != ids["A"] {
		t.Fatalf("expected zoom into A, got %s", id)
	}
	if len(m.rows) != 2 || m.cursorID != ids["A1"] {
		t.Fatalf("expected A's children, got %+v", m.rows)
	}
	if !strings.Contains(m.headerLine(), "plan.md") {
		t.Fatalf("expected breadcrumb, got %q", m.headerLine())
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if _, id := sess.Document(); id != home.RootID || m.cursorID != ids["A"] {
		t.Fatalf("expected zoom out focused on A, got %s", m.cursorID)
	}
}

func TestKeys_SearchAndBack(t *testing.T) {
	m, sess, _ := newTestModel(t)
	m = send(t, m, keys("/"))
	if !m.searching {
		t.Fatalf("expected search prompt")
	}
	m = send(t, m, keys("A"), keys("2"), tea.KeyMsg{Type: tea.KeyEnter})
	doc, _ := sess.Document()
	if doc == sess.Home() {
		t.Fatalf("expected search results to be active")
	}
	if len(m.rows) != 2 || m.rows[1].title != "A2" || !m.rows[1].match {
		t.Fatalf("unexpected result rows %+v", m.rows)
	}
	if m.status != `1 matches for "A2"` {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if doc, _ := sess.Document(); doc != sess.Home() {
		t.Fatalf("expected esc to return home")
	}
}

func TestReload_WaitsForGestureToEnd(t *testing.T) {
	m, sess, _ := newTestModel(t)
	next := outline.New(outline.HomeTitle, "n")
	_, _ = next.Add(next.RootID, "fresh", "")
	m.opts.Reload = func() (*outline.Tree, error) { return next, nil }

	m = send(t, m, press(1, 5), fileChangedMsg{})
	if sess.Home() == next {
		t.Fatalf("reload must wait for the drag to end")
	}
	m = send(t, m, release(1, 5))
	if sess.Home() != next {
		t.Fatalf("expected reload after the drag")
	}
	if len(m.rows) != 1 || m.rows[0].title != "fresh" {
		t.Fatalf("unexpected rows after reload %+v", m.rows)
	}

	m.opts.Reload = func() (*outline.Tree, error) { return nil, errors.New("bad yaml") }
	m = send(t, m, fileChangedMsg{})
	if !m.statusErr || !strings.Contains(m.status, "bad yaml") {
		t.Fatalf("expected reload error in status, got %q", m.status)
	}
}

func TestView_ShowsNotesAndSettings(t *testing.T) {
	m, sess, _ := newTestModel(t)
	v := m.View()
	for _, want := range []string{"plan.md", "A1", "notes"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected %q in view:\n%s", want, v)
		}
	}
	if got := len(strings.Split(v, "\n")); got > 24 {
		t.Fatalf("view taller than the terminal: %d lines", got)
	}
	m = send(t, m, keys("D"))
	if !sess.Settings().DarkMode {
		t.Fatalf("expected dark mode toggled on")
	}
	_ = m
}

func TestWaitForChange_ReturnsAfterWatcherStops(t *testing.T) {
	if waitForChange(nil) != nil {
		t.Fatalf("expected no command without a watcher")
	}
	w, err := watcher.New(filepath.Join(t.TempDir(), "outline.md"))
	if err != nil {
		t.Fatalf("watcher.New: %v", err)
	}
	cmd := waitForChange(w)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	w.Stop()

	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("expected nil message after Stop, got %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("command still blocked after Stop")
	}
}
