package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"altflow/internal/gesture"
	"altflow/internal/model"
	"altflow/internal/outline"
	"altflow/internal/search"
)

// The resolve and select commands lay the outline out one row per node: rows are
// layoutRowHeight units tall and text starts layoutIndent units per depth level plus
// layoutTextOffset.
const (
	layoutRowHeight  = 20
	layoutIndent     = 20
	layoutTextOffset = 10
)

func rowLayout(t *outline.Tree, rootID string) gesture.Geometry {
	rects := map[string]gesture.Rect{}
	row := 0
	t.Walk(rootID, func(n *model.Node, depth int) bool {
		top := float64(row * layoutRowHeight)
		rects[n.ID] = gesture.Rect{
			Top:    top,
			Left:   float64(depth*layoutIndent + layoutTextOffset),
			Bottom: top + layoutRowHeight,
			Height: layoutRowHeight,
		}
		row++
		return true
	})
	return gesture.GeometryFunc(func(id string) (gesture.Rect, bool) {
		r, ok := rects[id]
		return r, ok
	})
}

func treeView(t *outline.Tree) model.NodeView {
	v, _ := t.View(t.RootID)
	if v.Children == nil {
		v.Children = []model.NodeView{}
	}
	return v
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print an imported outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := outline.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": treeView(t)})
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Print the nodes matching query with their ancestors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := outline.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess := gesture.NewSession(t, nil, gesture.WithRootLabel(app.RootLabel))
			defer sess.Close()
			res := sess.Search(args[1])
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"query":   args[1],
				"matches": search.CountMatches(res),
				"results": treeView(res).Children,
			}})
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	var nodeID, targetID, placement string

	cmd := &cobra.Command{
		Use:   "move <file>",
		Short: "Move a node with its subtree and print the resulting outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := gesture.ParsePlacement(placement)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := outline.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st := gesture.DropStatus{Target: strings.TrimSpace(targetID), Placement: p}
			if err := gesture.ApplyDrop(t, st, nodeID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"node": nodeID,
				"drop": st,
				"tree": treeView(t),
			}})
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "Node to move (required)")
	cmd.Flags().StringVar(&targetID, "target", "", "Node to drop relative to (required)")
	cmd.Flags().StringVar(&placement, "placement", "bottom", "top|bottom|children")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newResolveCmd(app *App) *cobra.Command {
	var nodeID string
	var x, y float64

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Show where a dragged node would land for a pointer position",
		Long: strings.TrimSpace(`
Lays the outline out one node per row (rows are 20 units tall, text starts 20 units
per depth level plus 10) and resolves a drop of --node at pointer (--x, --y).
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := outline.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := t.Find(nodeID); !ok {
				return writeErr(cmd, outline.NotFoundError{Kind: "node", ID: nodeID})
			}
			snap := gesture.BuildSnapshot(t, t.RootID, nodeID, rowLayout(t, t.RootID))
			p := gesture.Point{X: x, Y: y}
			data := map[string]any{
				"node":     nodeID,
				"pointer":  p,
				"snapshot": snap,
				"drop":     nil,
			}
			if st, ok := gesture.ResolveDrop(p, snap, nodeID); ok {
				data["drop"] = st
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "Dragged node (required)")
	cmd.Flags().Float64Var(&x, "x", 0, "Pointer x")
	cmd.Flags().Float64Var(&y, "y", 0, "Pointer y")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newSelectCmd(app *App) *cobra.Command {
	var anchor string
	var ys []float64

	cmd := &cobra.Command{
		Use:   "select <file>",
		Short: "Replay a range selection from --anchor through pointer heights --y",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := outline.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess := gesture.NewSession(t, rowLayout(t, t.RootID))
			defer sess.Close()
			if err := sess.StartRangeSelect(anchor); err != nil {
				return writeErr(cmd, err)
			}
			for _, y := range ys {
				sess.MoveRangeSelect(gesture.Point{Y: y})
			}
			sess.StopRangeSelect()

			sel := sess.Selection()
			titles := make([]string, 0, len(sel))
			for _, id := range sel {
				n, _ := t.Find(id)
				titles = append(titles, n.Title)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"anchor":   anchor,
				"selected": sel,
				"titles":   titles,
			}})
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "Node the selection starts from (required)")
	cmd.Flags().Float64SliceVar(&ys, "y", nil, "Pointer heights, in order")
	_ = cmd.MarkFlagRequired("anchor")
	return cmd
}
