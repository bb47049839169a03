package search

import (
	"fmt"
	"strings"

	"altflow/internal/model"
	"altflow/internal/outline"
)

// Options tunes Project.
type Options struct {
	// RootLabel is the ancestor title where context reconstruction stops.
	// Defaults to outline.HomeTitle.
	RootLabel string
}

// Project builds a standalone result tree for the nodes below rootIDs (inclusive) whose
// title or notes contain query.
//
// Each match is copied without its children and hung under copies of its ancestors, up to
// (not including) the ancestor titled opts.RootLabel or the tree root. Ancestor copies
// are shared between matches, so siblings that match appear under one parent copy and a
// match below another match nests under it. Results keep document order.
func Project(t *outline.Tree, rootIDs []string, query string, opts Options) *outline.Tree {
	label := opts.RootLabel
	if label == "" {
		label = outline.HomeTitle
	}
	res := outline.New(fmt.Sprintf("Search: %s", query), "s")
	if t == nil {
		return res
	}

	// original node ID -> its copy in res
	copies := map[string]*model.Node{}

	var visit func(id string)
	visit = func(id string) {
		n, ok := t.Find(id)
		if !ok {
			return
		}
		if matches(n, query) {
			project(t, res, n, label, copies)
		}
		for _, cid := range n.Children {
			visit(cid)
		}
	}
	for _, id := range rootIDs {
		visit(id)
	}
	return res
}

func matches(n *model.Node, query string) bool {
	return strings.Contains(n.Title, query) || (n.Notes != "" && strings.Contains(n.Notes, query))
}

func project(t, res *outline.Tree, n *model.Node, label string, copies map[string]*model.Node) {
	if c, ok := copies[n.ID]; ok {
		// Already present as context for an earlier match.
		c.Match = true
		return
	}
	cur := res.CopyContent(n)
	cur.Match = true
	copies[n.ID] = cur

	orig := n
	for {
		parent, ok := t.Parent(orig.ID)
		if !ok || parent.ID == t.RootID || parent.Title == label {
			_ = res.AppendChild(res.RootID, cur.ID)
			return
		}
		if pc, ok := copies[parent.ID]; ok {
			_ = res.AppendChild(pc.ID, cur.ID)
			return
		}
		pc := res.CopyContent(parent)
		copies[parent.ID] = pc
		_ = res.AppendChild(pc.ID, cur.ID)
		cur, orig = pc, parent
	}
}

// CountMatches returns how many nodes of a projected tree matched the query themselves.
func CountMatches(res *outline.Tree) int {
	n := 0
	res.Walk(res.RootID, func(c *model.Node, _ int) bool {
		if c.Match {
			n++
		}
		return true
	})
	return n
}
