package outline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"altflow/internal/model"

	json "github.com/goccy/go-json"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Load imports the outline stored at path. The format is picked from the extension:
// .yaml/.yml, .json, anything else is read as markdown.
func Load(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t *Tree
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = ParseYAML(f)
	case ".json":
		t, err = ParseJSON(f)
	default:
		t, err = ParseMarkdown(f)
	}
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return t, nil
}

// ParseYAML reads a sequence of {title, notes, children} nodes.
func ParseYAML(r io.Reader) (*Tree, error) {
	var views []model.NodeView
	if err := yaml.NewDecoder(r).Decode(&views); err != nil && err != io.EOF {
		return nil, err
	}
	return FromView(HomeTitle, "n", views), nil
}

// ParseJSON reads an array of {title, notes, children} nodes.
func ParseJSON(r io.Reader) (*Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var views []model.NodeView
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &views); err != nil {
			return nil, err
		}
	}
	return FromView(HomeTitle, "n", views), nil
}

// ParseMarkdown turns headings and (nested) bullet lists into an outline.
//
// A heading becomes a node under the closest preceding heading of a lower level. List
// items become children of the last heading (or of the root). Inside a list item the
// first paragraph is the title; further paragraphs become notes.
func ParseMarkdown(r io.Reader) (*Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	t := New(HomeTitle, "n")
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type level struct {
		depth int
		id    string
	}
	headings := []level{{depth: 0, id: t.RootID}}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		switch b := c.(type) {
		case *ast.Heading:
			for len(headings) > 1 && headings[len(headings)-1].depth >= b.Level {
				headings = headings[:len(headings)-1]
			}
			n, err := t.Add(headings[len(headings)-1].id, inlineText(b, src), "")
			if err != nil {
				return nil, err
			}
			headings = append(headings, level{depth: b.Level, id: n.ID})
		case *ast.List:
			if err := addListItems(t, headings[len(headings)-1].id, b, src); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func addListItems(t *Tree, parentID string, list *ast.List, src []byte) error {
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		if _, ok := li.(*ast.ListItem); !ok {
			continue
		}
		title := ""
		var notes []string
		var nested []*ast.List
		for b := li.FirstChild(); b != nil; b = b.NextSibling() {
			switch bb := b.(type) {
			case *ast.List:
				nested = append(nested, bb)
			case *ast.TextBlock, *ast.Paragraph:
				if title == "" && len(notes) == 0 {
					title = inlineText(bb, src)
				} else {
					notes = append(notes, blockLines(bb, src))
				}
			default:
				notes = append(notes, blockLines(bb, src))
			}
		}
		n, err := t.Add(parentID, title, strings.TrimSpace(strings.Join(notes, "\n\n")))
		if err != nil {
			return err
		}
		for _, sub := range nested {
			if err := addListItems(t, n.ID, sub, src); err != nil {
				return err
			}
		}
	}
	return nil
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch tn := c.(type) {
		case *ast.Text:
			buf.Write(tn.Segment.Value(src))
			if tn.SoftLineBreak() || tn.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(tn.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func blockLines(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return inlineText(n, src)
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
