package gesture

import (
	"altflow/internal/model"
	"altflow/internal/outline"
)

// Position is where a node was drawn when the drag started.
type Position struct {
	Node string  `json:"node"`
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// BuildSnapshot lists the visible nodes below rootID in document order.
//
// excludedID and its whole subtree are left out: the dragged subtree moves with the
// pointer and can never be its own drop target. Nodes the geometry cannot place get no
// entry, but their children are still considered.
func BuildSnapshot(t *outline.Tree, rootID, excludedID string, geo Geometry) []Position {
	if t == nil || geo == nil {
		return nil
	}
	var out []Position
	t.Walk(rootID, func(n *model.Node, _ int) bool {
		if n.ID == excludedID {
			return false
		}
		if r, ok := geo.Rect(n.ID); ok {
			out = append(out, Position{Node: n.ID, Top: r.Top, Left: r.Left})
		}
		return true
	})
	return out
}
