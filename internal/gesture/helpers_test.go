package gesture

import (
	"testing"

	"altflow/internal/model"
	"altflow/internal/outline"
)

const (
	rowHeight = 20.0
	indent    = 10.0
)

// fixture builds
//
//	A
//	  A1
//	  A2
//	B
//	C
func fixture(t *testing.T) (*outline.Tree, map[string]string) {
	t.Helper()
	tr := outline.New(outline.HomeTitle, "n")
	ids := map[string]string{}
	add := func(parent, title string) {
		pid := tr.RootID
		if parent != "" {
			pid = ids[parent]
		}
		n, err := tr.Add(pid, title, "")
		if err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
		ids[title] = n.ID
	}
	add("", "A")
	add("A", "A1")
	add("A", "A2")
	add("", "B")
	add("", "C")
	return tr, ids
}

// layout places every node below rootID on its own row, indented by depth.
func layout(t *outline.Tree, rootID string) GeometryFunc {
	rects := map[string]Rect{}
	row := 0
	t.Walk(rootID, func(n *model.Node, depth int) bool {
		top := float64(row) * rowHeight
		rects[n.ID] = Rect{Top: top, Left: float64(depth)*indent + 2, Bottom: top + rowHeight, Height: rowHeight}
		row++
		return true
	})
	return func(id string) (Rect, bool) {
		r, ok := rects[id]
		return r, ok
	}
}

func titles(t *outline.Tree, id string) []string {
	var out []string
	for _, c := range t.ChildrenOf(id) {
		out = append(out, c.Title)
	}
	return out
}
