package model

// Node is one line of an outline document.
//
// Nodes are owned by an outline.Tree; ParentID and Children are lookups into that tree,
// never owning references.
type Node struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes,omitempty"`
	ParentID string   `json:"parentId,omitempty"`
	Children []string `json:"children,omitempty"`

	// Projected copies (search results) remember where they came from.
	OriginID string `json:"originId,omitempty"`
	Match    bool   `json:"match,omitempty"`
}

// NodeView is the nested, self-contained form of a subtree used for import and CLI output.
type NodeView struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string     `json:"title" yaml:"title"`
	Notes    string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	OriginID string     `json:"originId,omitempty" yaml:"-"`
	Match    bool       `json:"match,omitempty" yaml:"-"`
	Children []NodeView `json:"children,omitempty" yaml:"children,omitempty"`
}
