package gesture

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"altflow/internal/outline"
)

func newSession(t *testing.T) (*Session, map[string]string) {
	t.Helper()
	tr, ids := fixture(t)
	s := NewSession(tr, layout(tr, tr.RootID))
	t.Cleanup(s.Close)
	return s, ids
}

func record(s *Session) *[]Change {
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })
	return &got
}

func TestSession_DragCommitsDrop(t *testing.T) {
	s, ids := newSession(t)
	changes := record(s)

	var pointers []*Point
	if err := s.StartDrag(ids["C"], func(p *Point) { pointers = append(pointers, p) }); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	if !s.IsDragging() {
		t.Fatalf("expected a running drag")
	}
	// A1 sits on row 1, indented; left of its text means "below A1".
	s.MoveDrag(Point{X: 0, Y: 25})
	st, ok := s.DropStatus()
	if !ok || st != (DropStatus{Target: ids["A1"], Placement: PlacementBottom}) {
		t.Fatalf("unexpected drop status %+v %v", st, ok)
	}
	// Same resolution again does not notify.
	s.MoveDrag(Point{X: 1, Y: 26})

	if err := s.EndDrag(false); err != nil {
		t.Fatalf("end drag: %v", err)
	}
	home := s.Home()
	if got := titles(home, ids["A"]); !reflect.DeepEqual(got, []string{"A1", "C", "A2"}) {
		t.Fatalf("expected C between A1 and A2, got %v", got)
	}
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("expected C gone from the root, got %v", got)
	}
	if s.IsDragging() {
		t.Fatalf("expected drag to be over")
	}
	if _, ok := s.DropStatus(); ok {
		t.Fatalf("expected drop status reset")
	}

	if len(pointers) != 3 || pointers[0] == nil || pointers[2] != nil {
		t.Fatalf("expected two samples then a clear, got %v", pointers)
	}
	if pointers[0].Y != 25 {
		t.Fatalf("expected pointer sample to be forwarded, got %+v", *pointers[0])
	}
	if !slices.Contains(*changes, ChangeTree) || slices.Index(*changes, ChangeDrop) != 0 {
		t.Fatalf("unexpected change sequence %v", *changes)
	}
}

func TestSession_CancelledDragLeavesTree(t *testing.T) {
	s, ids := newSession(t)
	if err := s.StartDrag(ids["C"], nil); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	s.MoveDrag(Point{X: 50, Y: 5})
	if err := s.EndDrag(true); err != nil {
		t.Fatalf("end drag: %v", err)
	}
	home := s.Home()
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected unchanged tree, got %v", got)
	}

	// Release without any move is a no-op as well.
	_ = s.StartDrag(ids["B"], nil)
	if err := s.EndDrag(false); err != nil {
		t.Fatalf("end drag: %v", err)
	}
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected unchanged tree, got %v", got)
	}
	if err := s.EndDrag(false); err != nil {
		t.Fatalf("expected EndDrag without drag to be a no-op, got %v", err)
	}
}

func TestSession_GesturesAreExclusive(t *testing.T) {
	s, ids := newSession(t)
	if err := s.StartDrag(ids["A"], nil); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	if err := s.StartRangeSelect(ids["B"]); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	if err := s.StartDrag(ids["B"], nil); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	if err := s.NudgeNode(ids["B"], PlacementTop); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	_ = s.EndDrag(true)

	var nf outline.NotFoundError
	if err := s.StartDrag("n-99", nil); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := s.StartRangeSelect("n-99"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSession_RangeSelectLifecycle(t *testing.T) {
	s, ids := newSession(t)
	changes := record(s)

	if err := s.StartRangeSelect(ids["A"]); err != nil {
		t.Fatalf("start range: %v", err)
	}
	// B is on row 3 (midpoint 70).
	s.MoveRangeSelect(Point{Y: 75})
	if !s.IsSelected(ids["A"]) || !s.IsSelected(ids["B"]) || s.IsSelected(ids["C"]) {
		t.Fatalf("unexpected selection %v", s.Selection())
	}
	s.StopRangeSelect()
	if s.IsRangeSelecting() {
		t.Fatalf("expected range select to stop")
	}
	if len(s.Selection()) != 2 {
		t.Fatalf("expected selection to survive stop, got %v", s.Selection())
	}
	s.MoveRangeSelect(Point{Y: 95})
	if len(s.Selection()) != 2 {
		t.Fatalf("expected moves after stop to be ignored")
	}

	s.ClearRangeSelect()
	if len(s.Selection()) != 0 {
		t.Fatalf("expected cleared selection")
	}
	want := []Change{ChangeSelection, ChangeSelection}
	if !reflect.DeepEqual(*changes, want) {
		t.Fatalf("expected %v, got %v", want, *changes)
	}
}

func TestSession_DropClearsSelection(t *testing.T) {
	s, ids := newSession(t)
	_ = s.StartRangeSelect(ids["A"])
	s.MoveRangeSelect(Point{Y: 75})
	s.StopRangeSelect()

	if err := s.NudgeNode(ids["C"], PlacementTop); err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if len(s.Selection()) != 0 {
		t.Fatalf("expected a tree change to clear the selection")
	}
}

func TestSession_NudgeNode(t *testing.T) {
	s, ids := newSession(t)
	home := s.Home()

	if err := s.NudgeNode(ids["B"], PlacementTop); err != nil {
		t.Fatalf("nudge up: %v", err)
	}
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Fatalf("expected B first, got %v", got)
	}
	if err := s.NudgeNode(ids["B"], PlacementBottom); err != nil {
		t.Fatalf("nudge down: %v", err)
	}
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected B back, got %v", got)
	}
	// Indent under a sibling with children appends after its last child.
	if err := s.NudgeNode(ids["B"], PlacementChildren); err != nil {
		t.Fatalf("indent: %v", err)
	}
	if got := titles(home, ids["A"]); !reflect.DeepEqual(got, []string{"A1", "A2", "B"}) {
		t.Fatalf("expected B as last child of A, got %v", got)
	}
	// Indent under a leaf makes it the first child.
	if err := s.NudgeNode(ids["A2"], PlacementChildren); err != nil {
		t.Fatalf("indent: %v", err)
	}
	if got := titles(home, ids["A1"]); !reflect.DeepEqual(got, []string{"A2"}) {
		t.Fatalf("expected A2 under A1, got %v", got)
	}
	// Edges are no-ops.
	if err := s.NudgeNode(ids["A"], PlacementTop); err != nil {
		t.Fatalf("nudge at top: %v", err)
	}
	if err := s.NudgeNode(ids["C"], PlacementBottom); err != nil {
		t.Fatalf("nudge at bottom: %v", err)
	}
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Fatalf("unexpected root %v", got)
	}
}

func TestSession_SearchAndActiveDocument(t *testing.T) {
	s, ids := newSession(t)
	changes := record(s)

	_ = s.StartRangeSelect(ids["A"])
	res := s.Search("A2")
	if s.IsRangeSelecting() {
		t.Fatalf("expected search to stop the range gesture")
	}
	doc, id := s.Document()
	if doc != res || id != res.RootID {
		t.Fatalf("expected search result to be active")
	}
	if got := titles(res, res.RootID); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected A as context, got %v", got)
	}
	if !slices.Contains(*changes, ChangeDocument) {
		t.Fatalf("expected a document change, got %v", *changes)
	}

	s.SetActiveDocument(nil, "")
	if doc, id := s.Document(); doc != s.Home() || id != s.Home().RootID {
		t.Fatalf("expected home to be active again")
	}

	s.SetActiveDocument(s.Home(), ids["A"])
	if _, id := s.Document(); id != ids["A"] {
		t.Fatalf("expected A to be zoomed, got %s", id)
	}
	s.SetActiveDocument(s.Home(), "n-99")
	if _, id := s.Document(); id != s.Home().RootID {
		t.Fatalf("expected unknown id to fall back to the root, got %s", id)
	}
}

func TestSession_SettingsAndSubscribers(t *testing.T) {
	tr, _ := fixture(t)
	s := NewSession(tr, nil, WithSettings(Settings{DarkMode: true}))
	defer s.Close()

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })
	s.SetDarkMode(true)
	s.SetRTL(true)
	if !s.Settings().RTL || !s.Settings().DarkMode {
		t.Fatalf("unexpected settings %+v", s.Settings())
	}
	unsubscribe()
	s.SetRTL(false)
	if !reflect.DeepEqual(got, []Change{ChangeSettings}) {
		t.Fatalf("expected one settings change before unsubscribing, got %v", got)
	}
	if ChangeSettings.String() != "settings" {
		t.Fatalf("unexpected change name %q", ChangeSettings)
	}
}

func TestSession_CloseCancelsDrag(t *testing.T) {
	s, ids := newSession(t)
	var last *Point
	cleared := false
	_ = s.StartDrag(ids["B"], func(p *Point) {
		last = p
		cleared = p == nil
	})
	s.MoveDrag(Point{X: 0, Y: 5})
	s.Close()
	if !cleared || last != nil {
		t.Fatalf("expected Close to clear the pointer")
	}
	home := s.Home()
	if got := titles(home, home.RootID); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected no drop on close, got %v", got)
	}
}

func TestSession_ReplaceHome(t *testing.T) {
	s, ids := newSession(t)
	_ = s.StartDrag(ids["A"], nil)
	next := outline.New(outline.HomeTitle, "n")
	if err := s.ReplaceHome(next); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	_ = s.EndDrag(true)
	if err := s.ReplaceHome(next); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if doc, _ := s.Document(); doc != next || s.Home() != next {
		t.Fatalf("expected new home to be active")
	}
}

func TestInvariantError_Unwraps(t *testing.T) {
	s, _ := newSession(t)
	err := s.commit(DropStatus{Target: "n-1"}, "")
	var inv *InvariantError
	if !errors.As(err, &inv) || !errors.Is(err, ErrNothingGrabbed) {
		t.Fatalf("expected InvariantError wrapping ErrNothingGrabbed, got %v", err)
	}
}
