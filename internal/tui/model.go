package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"altflow/internal/debug"
	"altflow/internal/gesture"
	"altflow/internal/outline"
	"altflow/internal/search"
	"altflow/internal/watcher"
)

const (
	notesHeight = 3
	// statusHeight is the status line, or the search prompt while searching.
	statusHeight = 1
)

type Options struct {
	// Name labels the header, usually the imported file name.
	Name string
	// Watcher, when set, triggers Reload after the file changes on disk.
	Watcher *watcher.Watcher
	Reload  func() (*outline.Tree, error)
}

type fileChangedMsg struct{}

func waitForChange(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return fileChangedMsg{}
		case <-w.Stopped():
			return nil
		}
	}
}

// sharedState is written by session callbacks and read back by the model. It lives
// behind a pointer because the model itself is passed by value.
type sharedState struct {
	changes map[gesture.Change]bool
	pointer *gesture.Point
}

func (s *sharedState) trackPointer(p *gesture.Point) {
	if p == nil {
		s.pointer = nil
		return
	}
	cp := *p
	s.pointer = &cp
}

// Model is the bubbletea model of the outline view.
type Model struct {
	sess        *gesture.Session
	opts        Options
	shared      *sharedState
	unsubscribe func()

	keys  keyMap
	help  help.Model
	input textinput.Model
	st    styles
	gs    glyphSet

	width  int
	height int

	rows     []outlineRow
	index    map[string]int
	geo      *screenGeometry
	cursorID string
	offset   int
	// focusID is where the cursor goes after the next document switch.
	focusID string

	searching     bool
	pendingReload bool
	// rangeRow is the screen row of the range selection anchor.
	rangeRow int

	status    string
	statusErr bool
}

func New(sess *gesture.Session, opts Options) Model {
	shared := &sharedState{changes: map[gesture.Change]bool{}}
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search titles and notes"

	applyThemePreference(sess.Settings().DarkMode)
	m := Model{
		sess:   sess,
		opts:   opts,
		shared: shared,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  in,
		st:     newStyles(),
		gs:     glyphPreference(),
		width:  80,
		height: 24,
	}
	m.unsubscribe = sess.Subscribe(func(c gesture.Change) { shared.changes[c] = true })
	m.relayout()
	if len(m.rows) > 0 {
		m.cursorID = m.rows[0].id
	}
	return m
}

// Close detaches the model from the session.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.opts.Watcher)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 2
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case fileChangedMsg:
		m.pendingReload = true
		cmds = append(cmds, waitForChange(m.opts.Watcher))
	}
	m.sync()
	return m, tea.Batch(cmds...)
}

// sync folds session changes into the view state and refreshes the layout.
func (m *Model) sync() {
	if m.pendingReload && !m.sess.IsDragging() && !m.sess.IsRangeSelecting() {
		m.reload()
	}
	changes := m.shared.changes
	m.shared.changes = map[gesture.Change]bool{}

	if changes[gesture.ChangeSettings] {
		applyThemePreference(m.sess.Settings().DarkMode)
		m.st = newStyles()
	}
	if changes[gesture.ChangeDocument] {
		m.cursorID, m.offset = m.focusID, 0
		m.focusID = ""
	}
	m.relayout()
}

func (m *Model) reload() {
	m.pendingReload = false
	if m.opts.Reload == nil {
		return
	}
	t, err := m.opts.Reload()
	if err != nil {
		m.setError(fmt.Errorf("reload: %w", err))
		return
	}
	if err := m.sess.ReplaceHome(t); err != nil {
		m.setError(fmt.Errorf("reload: %w", err))
		return
	}
	m.setStatus("reloaded " + m.opts.Name)
}

func (m *Model) listHeight() int {
	footer := statusHeight + notesHeight + 1
	if m.help.ShowAll {
		footer += len(m.keys.FullHelp()[0]) - 1
	}
	if h := m.height - headerHeight - footer; h > 0 {
		return h
	}
	return 1
}

func (m *Model) relayout() {
	doc, id := m.sess.Document()
	m.rows = flattenDocument(doc, id)
	m.index = make(map[string]int, len(m.rows))
	for i, r := range m.rows {
		m.index[r.id] = i
	}

	cur, ok := m.index[m.cursorID]
	if !ok && len(m.rows) > 0 {
		cur = 0
		m.cursorID = m.rows[0].id
	}
	lh := m.listHeight()
	if cur < m.offset {
		m.offset = cur
	}
	if cur >= m.offset+lh {
		m.offset = cur - lh + 1
	}
	if maxOff := max(0, len(m.rows)-lh); m.offset > maxOff {
		m.offset = maxOff
	}
	m.geo = layoutRows(m.rows, m.offset, lh, m.gs)
	m.sess.SetGeometry(m.geo)
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	var inv *gesture.InvariantError
	if errors.As(err, &inv) {
		debug.Log("tui: %v", err)
	}
	m.status, m.statusErr = err.Error(), true
}

func (m *Model) moveCursor(delta int) {
	cur, ok := m.index[m.cursorID]
	if !ok {
		return
	}
	cur = min(max(cur+delta, 0), len(m.rows)-1)
	m.cursorID = m.rows[cur].id
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	doc, docID := m.sess.Document()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.NudgeUp):
		m.nudge(gesture.PlacementTop)
	case key.Matches(msg, m.keys.NudgeDown):
		m.nudge(gesture.PlacementBottom)
	case key.Matches(msg, m.keys.Indent):
		m.nudge(gesture.PlacementChildren)
	case key.Matches(msg, m.keys.ZoomIn):
		if m.cursorID != "" {
			m.sess.SetActiveDocument(doc, m.cursorID)
		}
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomOut(doc, docID)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue("")
		return m.input.Focus()
	case key.Matches(msg, m.keys.Copy):
		m.copySelection(doc)
	case key.Matches(msg, m.keys.DarkMode):
		m.sess.SetDarkMode(!m.sess.Settings().DarkMode)
	case key.Matches(msg, m.keys.RTL):
		m.sess.SetRTL(!m.sess.Settings().RTL)
	case key.Matches(msg, m.keys.Cancel):
		m.cancel(doc)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			m.sess.SetActiveDocument(nil, "")
			return nil
		}
		res := m.sess.Search(q)
		m.setStatus(fmt.Sprintf("%d matches for %q", search.CountMatches(res), q))
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) nudge(p gesture.Placement) {
	if m.cursorID == "" {
		return
	}
	if err := m.sess.NudgeNode(m.cursorID, p); err != nil {
		m.setError(err)
	}
}

func (m *Model) zoomOut(doc *outline.Tree, docID string) {
	if docID != doc.RootID {
		m.focusID = docID
		parent, ok := doc.Parent(docID)
		if !ok {
			m.sess.SetActiveDocument(doc, doc.RootID)
			return
		}
		m.sess.SetActiveDocument(doc, parent.ID)
		return
	}
	if doc != m.sess.Home() {
		m.sess.SetActiveDocument(nil, "")
	}
}

func (m *Model) cancel(doc *outline.Tree) {
	switch {
	case m.sess.IsDragging():
		_ = m.sess.EndDrag(true)
		m.setStatus("move cancelled")
	case m.sess.IsRangeSelecting():
		m.sess.StopRangeSelect()
		m.sess.ClearRangeSelect()
	case len(m.sess.Selection()) > 0:
		m.sess.ClearRangeSelect()
	case doc != m.sess.Home():
		m.sess.SetActiveDocument(nil, "")
	}
}

// copySelection puts the selected subtrees (or the cursor node) on the clipboard in
// document order.
func (m *Model) copySelection(doc *outline.Tree) {
	ids := m.sess.Selection()
	if len(ids) == 0 && m.cursorID != "" {
		ids = []string{m.cursorID}
	}
	if len(ids) == 0 {
		return
	}
	slices.SortFunc(ids, func(a, b string) int { return m.index[a] - m.index[b] })
	if err := writeClipboard(outlineMarkdown(doc, ids)); err != nil {
		m.setError(fmt.Errorf("copy: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("copied %d node(s)", len(ids)))
}

func (m Model) title(id string) string {
	doc, _ := m.sess.Document()
	if n, ok := doc.Find(id); ok {
		return n.Title
	}
	return id
}
