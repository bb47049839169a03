package gesture

import (
	"fmt"
	"strings"

	"altflow/internal/outline"
)

// ApplyDrop moves grabbed (with its subtree) to the place described by status.
//
// Dropping a node onto itself is a no-op. Dropping it anywhere inside its own subtree is
// rejected before the tree is touched.
func ApplyDrop(t *outline.Tree, status DropStatus, grabbed string) error {
	grabbed = strings.TrimSpace(grabbed)
	if grabbed == "" {
		return ErrNothingGrabbed
	}
	if _, ok := t.Find(grabbed); !ok {
		return outline.NotFoundError{Kind: "node", ID: grabbed}
	}
	if _, ok := t.Find(status.Target); !ok {
		return outline.NotFoundError{Kind: "node", ID: status.Target}
	}
	if status.Target == grabbed {
		return nil
	}
	if t.IsAncestor(grabbed, status.Target) {
		return ErrDropIntoSubtree
	}
	if status.Target == t.RootID && status.Placement != PlacementChildren {
		return fmt.Errorf("drop %s next to the document root: %w", status.Placement, outline.ErrDetachRoot)
	}

	// Remember the old slot so a failed insert does not leave the subtree detached.
	prev, hasPrev := t.PreviousSibling(grabbed)
	parent, hasParent := t.Parent(grabbed)
	if err := t.Detach(grabbed); err != nil {
		return err
	}
	restore := func() {
		switch {
		case hasPrev:
			_ = t.InsertAfter(prev.ID, grabbed)
		case hasParent:
			_ = t.InsertFirstChild(parent.ID, grabbed)
		}
	}

	var err error
	switch status.Placement {
	case PlacementBottom:
		err = t.InsertAfter(status.Target, grabbed)
	case PlacementChildren:
		err = t.InsertFirstChild(status.Target, grabbed)
	case PlacementTop:
		err = t.InsertBefore(status.Target, grabbed)
	default:
		err = fmt.Errorf("unknown placement %v", status.Placement)
	}
	if err != nil {
		restore()
		return fmt.Errorf("apply drop %s %s: %w", status.Placement, status.Target, err)
	}
	return nil
}
