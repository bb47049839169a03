package tui

import (
	"strings"

	"github.com/atotto/clipboard"

	"altflow/internal/model"
	"altflow/internal/outline"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// outlineMarkdown renders the subtrees rooted at ids as a nested markdown bullet list,
// the same shape the markdown importer reads.
func outlineMarkdown(t *outline.Tree, ids []string) string {
	var b strings.Builder
	var write func(n *model.Node, depth int)
	write = func(n *model.Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("- ")
		b.WriteString(n.Title)
		b.WriteByte('\n')
		for _, c := range t.ChildrenOf(n.ID) {
			write(c, depth+1)
		}
	}
	for _, id := range ids {
		if n, ok := t.Find(id); ok {
			write(n, 0)
		}
	}
	return b.String()
}
