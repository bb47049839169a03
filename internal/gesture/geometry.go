// Package gesture turns pointer samples into outline edits: drag-and-drop placement,
// contiguous sibling range selection, and the session state that sequences them.
//
// Everything here is synchronous and meant to be driven from a single UI event loop.
package gesture

// Rect is a node's on-screen box. All rects and points share one coordinate space in
// which y grows downwards.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Height float64 `json:"height"`
}

// Mid is the vertical midpoint the pointer has to cross to select a node.
func (r Rect) Mid() float64 {
	return r.Top + r.Height/2
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry reports where a node is currently drawn. ok is false for nodes that are not
// rendered (detached, collapsed, scrolled away).
type Geometry interface {
	Rect(id string) (r Rect, ok bool)
}

// GeometryFunc adapts a function to Geometry.
type GeometryFunc func(id string) (Rect, bool)

func (f GeometryFunc) Rect(id string) (Rect, bool) { return f(id) }

// PointerFunc receives drag position updates; nil means the drag indicator should be
// cleared.
type PointerFunc func(p *Point)
