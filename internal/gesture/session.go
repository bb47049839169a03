package gesture

import (
	"slices"
	"time"

	"altflow/internal/debug"
	"altflow/internal/outline"
	"altflow/internal/search"
)

// Change tells subscribers which part of the session state moved.
type Change int

const (
	ChangeDrop Change = iota + 1
	ChangeSelection
	ChangeTree
	ChangeDocument
	ChangeSettings
)

func (c Change) String() string {
	switch c {
	case ChangeDrop:
		return "drop"
	case ChangeSelection:
		return "selection"
	case ChangeTree:
		return "tree"
	case ChangeDocument:
		return "document"
	case ChangeSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Settings are the user preferences the session carries for the UI.
type Settings struct {
	RTL      bool `json:"rtl"`
	DarkMode bool `json:"darkmode"`
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureRange
)

type hook struct {
	id int
	fn func(Change)
}

// Session holds the interactive state of one outline view: the active document, the
// running gesture and the user settings. It is not safe for concurrent use; drive it
// from the UI event loop.
type Session struct {
	home     *outline.Tree
	doc      *outline.Tree
	docID    string
	geo      Geometry
	settings Settings

	rootLabel string

	kind      gestureKind
	grabbed   string
	onPointer PointerFunc
	snapshot  []Position
	status    *DropStatus

	selector RangeSelector

	hooks  []hook
	hookID int
	closed bool
}

type Option func(*Session)

// WithSettings seeds the session settings (typically loaded from the config file).
func WithSettings(s Settings) Option {
	return func(ss *Session) { ss.settings = s }
}

// WithRootLabel sets the ancestor title at which search stops rebuilding context.
func WithRootLabel(label string) Option {
	return func(ss *Session) { ss.rootLabel = label }
}

func NewSession(home *outline.Tree, geo Geometry, opts ...Option) *Session {
	s := &Session{
		home:      home,
		doc:       home,
		docID:     home.RootID,
		geo:       geo,
		rootLabel: outline.HomeTitle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close cancels any running gesture and drops all subscribers.
func (s *Session) Close() {
	if s.closed {
		return
	}
	if s.kind == gestureDrag {
		_ = s.EndDrag(true)
	}
	if s.kind == gestureRange {
		s.StopRangeSelect()
	}
	s.hooks = nil
	s.closed = true
}

// SetGeometry replaces the geometry provider. The UI calls this after every layout.
func (s *Session) SetGeometry(geo Geometry) {
	s.geo = geo
}

// Subscribe registers fn to be called after every state change. The returned function
// removes it again.
func (s *Session) Subscribe(fn func(Change)) func() {
	s.hookID++
	id := s.hookID
	s.hooks = append(s.hooks, hook{id: id, fn: fn})
	return func() {
		s.hooks = slices.DeleteFunc(s.hooks, func(h hook) bool { return h.id == id })
	}
}

func (s *Session) notify(c Change) {
	for _, h := range slices.Clone(s.hooks) {
		h.fn(c)
	}
}

func (s *Session) Home() *outline.Tree {
	return s.home
}

// Document returns the tree being shown and the node whose children are listed.
func (s *Session) Document() (*outline.Tree, string) {
	return s.doc, s.docID
}

// SetActiveDocument shows the children of id in tree. A nil tree goes back to the home
// document root. Running gestures are cancelled because their geometry is stale.
func (s *Session) SetActiveDocument(tree *outline.Tree, id string) {
	s.cancelGestures()
	if tree == nil {
		tree, id = s.home, s.home.RootID
	}
	if _, ok := tree.Find(id); !ok {
		id = tree.RootID
	}
	if tree == s.doc && id == s.docID {
		return
	}
	s.doc, s.docID = tree, id
	if len(s.selector.selection) > 0 {
		s.selector.Clear()
		s.notify(ChangeSelection)
	}
	s.notify(ChangeDocument)
}

// Search projects the matches for query in the home document and makes the result the
// active document.
func (s *Session) Search(query string) *outline.Tree {
	start := time.Now()
	roots := s.home.Root().Children
	res := search.Project(s.home, roots, query, search.Options{RootLabel: s.rootLabel})
	debug.Log("search query=%q matches=%d nodes=%d", query, search.CountMatches(res), res.Len()-1)
	debug.LogTiming("search", time.Since(start))
	s.SetActiveDocument(res, res.RootID)
	return res
}

func (s *Session) cancelGestures() {
	switch s.kind {
	case gestureDrag:
		_ = s.EndDrag(true)
	case gestureRange:
		s.StopRangeSelect()
	}
}

func (s *Session) Settings() Settings {
	return s.settings
}

func (s *Session) SetRTL(v bool) {
	if s.settings.RTL == v {
		return
	}
	s.settings.RTL = v
	s.notify(ChangeSettings)
}

func (s *Session) SetDarkMode(v bool) {
	if s.settings.DarkMode == v {
		return
	}
	s.settings.DarkMode = v
	s.notify(ChangeSettings)
}

// StartDrag grabs id and snapshots the geometry of every other visible node.
func (s *Session) StartDrag(id string, onPointer PointerFunc) error {
	if s.kind != gestureNone {
		return ErrGestureActive
	}
	if _, ok := s.doc.Find(id); !ok {
		return outline.NotFoundError{Kind: "node", ID: id}
	}
	s.kind = gestureDrag
	s.grabbed = id
	s.onPointer = onPointer
	s.status = nil
	s.snapshot = BuildSnapshot(s.doc, s.docID, id, s.geo)
	debug.Log("drag start node=%s snapshot=%d", id, len(s.snapshot))
	return nil
}

func (s *Session) IsDragging() bool {
	return s.kind == gestureDrag
}

func (s *Session) Grabbed() (string, bool) {
	return s.grabbed, s.kind == gestureDrag
}

// DropStatus is where the grabbed node would land if the drag ended now.
func (s *Session) DropStatus() (DropStatus, bool) {
	if s.status == nil {
		return DropStatus{}, false
	}
	return *s.status, true
}

// MoveDrag feeds one pointer sample to the running drag. Without a drag it does nothing.
func (s *Session) MoveDrag(p Point) {
	if s.kind != gestureDrag {
		return
	}
	if s.onPointer != nil {
		s.onPointer(&p)
	}
	st, ok := ResolveDrop(p, s.snapshot, s.grabbed)
	if !ok {
		return
	}
	if s.status != nil && *s.status == st {
		return
	}
	s.status = &st
	s.notify(ChangeDrop)
}

// EndDrag finishes the drag. Unless cancel is set, a resolved drop is applied to the
// active document and the range selection is cleared.
func (s *Session) EndDrag(cancel bool) error {
	if s.kind != gestureDrag {
		return nil
	}
	if s.onPointer != nil {
		s.onPointer(nil)
	}
	status, grabbed := s.status, s.grabbed
	s.kind = gestureNone
	s.grabbed = ""
	s.onPointer = nil
	s.snapshot = nil
	s.status = nil
	if status != nil {
		defer s.notify(ChangeDrop)
	}

	if status == nil || cancel || status.Target == grabbed {
		debug.Log("drag end node=%s cancel=%v resolved=%v", grabbed, cancel, status != nil)
		return nil
	}
	return s.commit(*status, grabbed)
}

func (s *Session) commit(status DropStatus, grabbed string) error {
	if grabbed == "" {
		return &InvariantError{Op: "commit drop", Err: ErrNothingGrabbed}
	}
	if err := ApplyDrop(s.doc, status, grabbed); err != nil {
		debug.Log("drop %s %s %s failed: %v", grabbed, status.Placement, status.Target, err)
		return err
	}
	debug.Log("drop %s %s %s", grabbed, status.Placement, status.Target)
	if len(s.selector.selection) > 0 {
		s.selector.Clear()
		s.notify(ChangeSelection)
	}
	s.notify(ChangeTree)
	return nil
}

// NudgeNode moves id one step up (PlacementTop) or down (PlacementBottom) among its
// siblings, or indents it under its previous sibling (PlacementChildren), through the
// same mutation path as a drop.
func (s *Session) NudgeNode(id string, placement Placement) error {
	if s.kind != gestureNone {
		return ErrGestureActive
	}
	var st DropStatus
	switch placement {
	case PlacementTop:
		prev, ok := s.doc.PreviousSibling(id)
		if !ok {
			return nil
		}
		st = DropStatus{Target: prev.ID, Placement: PlacementTop}
	case PlacementBottom:
		next, ok := s.doc.NextSibling(id)
		if !ok {
			return nil
		}
		st = DropStatus{Target: next.ID, Placement: PlacementBottom}
	case PlacementChildren:
		prev, ok := s.doc.PreviousSibling(id)
		if !ok {
			return nil
		}
		st = DropStatus{Target: prev.ID, Placement: PlacementChildren}
		if n := len(prev.Children); n > 0 {
			st = DropStatus{Target: prev.Children[n-1], Placement: PlacementBottom}
		}
	default:
		return nil
	}
	return s.commit(st, id)
}

// StartRangeSelect anchors a new range selection at id.
func (s *Session) StartRangeSelect(id string) error {
	if s.kind != gestureNone {
		return ErrGestureActive
	}
	if _, ok := s.doc.Find(id); !ok {
		return outline.NotFoundError{Kind: "node", ID: id}
	}
	s.kind = gestureRange
	s.selector.Begin(id)
	debug.Log("range select start anchor=%s", id)
	return nil
}

func (s *Session) MoveRangeSelect(p Point) {
	if s.kind != gestureRange {
		return
	}
	if s.selector.Update(p, s.doc, s.geo) {
		s.notify(ChangeSelection)
	}
}

// StopRangeSelect ends the gesture; the selection stays until ClearRangeSelect.
func (s *Session) StopRangeSelect() {
	if s.kind != gestureRange {
		return
	}
	s.kind = gestureNone
	s.selector.End()
	debug.Log("range select stop selected=%d", len(s.selector.selection))
}

func (s *Session) ClearRangeSelect() {
	if len(s.selector.selection) == 0 {
		return
	}
	s.selector.Clear()
	s.notify(ChangeSelection)
}

func (s *Session) IsRangeSelecting() bool {
	return s.kind == gestureRange
}

func (s *Session) IsSelected(id string) bool {
	return s.selector.Contains(id)
}

func (s *Session) Selection() []string {
	return s.selector.Selection()
}

// ReplaceHome swaps in a freshly loaded home document and shows its root. It refuses to
// run while a gesture is active so a drag never commits against a stale tree.
func (s *Session) ReplaceHome(t *outline.Tree) error {
	if s.kind != gestureNone {
		return ErrGestureActive
	}
	s.home = t
	s.doc, s.docID = t, t.RootID
	s.selector.Clear()
	s.notify(ChangeSelection)
	s.notify(ChangeDocument)
	return nil
}
