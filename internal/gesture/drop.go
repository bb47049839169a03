package gesture

import (
	"fmt"
	"strings"
)

// Placement is where a dropped node goes relative to its target.
type Placement int

const (
	// PlacementTop inserts as the previous sibling of the target.
	PlacementTop Placement = iota
	// PlacementBottom inserts as the next sibling of the target.
	PlacementBottom
	// PlacementChildren inserts as the first child of the target.
	PlacementChildren
)

func (p Placement) String() string {
	switch p {
	case PlacementTop:
		return "TOP"
	case PlacementBottom:
		return "BOTTOM"
	case PlacementChildren:
		return "CHILDREN"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Placement) UnmarshalText(b []byte) error {
	v, err := ParsePlacement(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePlacement accepts top, bottom and children in any case.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return PlacementTop, nil
	case "bottom":
		return PlacementBottom, nil
	case "children", "child":
		return PlacementChildren, nil
	default:
		return 0, fmt.Errorf("unknown placement: %q (want top|bottom|children)", s)
	}
}

type DropStatus struct {
	Target    string    `json:"target"`
	Placement Placement `json:"placement"`
}

// ResolveDrop finds where a node grabbed at grabbed would land for pointer p.
//
// The snapshot is scanned bottom-up; the first node whose top edge is above the pointer
// is the target. A pointer left of the node's text start inserts next to it, anything
// else nests under it. Nesting a node directly under itself is never proposed. When the
// pointer is above every node the drop goes before the first one.
func ResolveDrop(p Point, snap []Position, grabbed string) (DropStatus, bool) {
	if len(snap) == 0 {
		return DropStatus{}, false
	}
	for i := len(snap) - 1; i >= 0; i-- {
		e := snap[i]
		if p.Y <= e.Top {
			continue
		}
		placement := PlacementChildren
		if p.X < e.Left {
			placement = PlacementBottom
		}
		if placement == PlacementChildren && e.Node == grabbed {
			continue
		}
		return DropStatus{Target: e.Node, Placement: placement}, true
	}
	return DropStatus{Target: snap[0].Node, Placement: PlacementTop}, true
}
