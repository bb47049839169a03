package outline

import (
	"errors"
	"fmt"
	"strings"

	"altflow/internal/model"
)

// HomeTitle is the title of the root of an imported document.
const HomeTitle = "Home"

var (
	ErrDetachRoot = errors.New("cannot detach the root node")
	ErrAttached   = errors.New("node is already attached")
	ErrCycle      = errors.New("cannot insert a node inside its own subtree")
)

// NotFoundError is returned when an ID does not name a node of the tree.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func errNodeNotFound(id string) error {
	return NotFoundError{Kind: "node", ID: id}
}

// Tree owns every node of one outline document.
//
// Parent links are IDs into the same tree. A node that has been detached keeps its
// own children but has no parent until it is inserted again.
type Tree struct {
	RootID string

	prefix string
	nextID int
	nodes  map[string]*model.Node
}

// New returns a tree holding only a root titled rootTitle. IDs are "<prefix>-<n>".
func New(rootTitle, prefix string) *Tree {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "n"
	}
	t := &Tree{prefix: prefix, nodes: map[string]*model.Node{}}
	root := t.newNode(rootTitle, "")
	t.RootID = root.ID
	return t
}

func (t *Tree) newNode(title, notes string) *model.Node {
	t.nextID++
	n := &model.Node{
		ID:    fmt.Sprintf("%s-%d", t.prefix, t.nextID),
		Title: title,
		Notes: notes,
	}
	t.nodes[n.ID] = n
	return n
}

func (t *Tree) Root() *model.Node {
	return t.nodes[t.RootID]
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Find(id string) (*model.Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[id]
	return n, ok
}

// Add creates a node as the last child of parentID.
func (t *Tree) Add(parentID, title, notes string) (*model.Node, error) {
	p, ok := t.nodes[parentID]
	if !ok {
		return nil, errNodeNotFound(parentID)
	}
	n := t.newNode(title, notes)
	n.ParentID = p.ID
	p.Children = append(p.Children, n.ID)
	return n, nil
}

// NewDetached creates a node that belongs to the tree but has no parent yet.
func (t *Tree) NewDetached(title, notes string) *model.Node {
	return t.newNode(title, notes)
}

// CopyContent creates a detached copy of src holding only its title and notes.
func (t *Tree) CopyContent(src *model.Node) *model.Node {
	n := t.newNode(src.Title, src.Notes)
	n.OriginID = src.ID
	return n
}

func (t *Tree) Parent(id string) (*model.Node, bool) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == "" {
		return nil, false
	}
	return t.Find(n.ParentID)
}

func (t *Tree) ChildrenOf(id string) []*model.Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*model.Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c, ok := t.nodes[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (t *Tree) indexInParent(id string) (*model.Node, int) {
	p, ok := t.Parent(id)
	if !ok {
		return nil, -1
	}
	for i, cid := range p.Children {
		if cid == id {
			return p, i
		}
	}
	return p, -1
}

func (t *Tree) PreviousSibling(id string) (*model.Node, bool) {
	p, i := t.indexInParent(id)
	if p == nil || i <= 0 {
		return nil, false
	}
	return t.Find(p.Children[i-1])
}

func (t *Tree) NextSibling(id string) (*model.Node, bool) {
	p, i := t.indexInParent(id)
	if p == nil || i < 0 || i+1 >= len(p.Children) {
		return nil, false
	}
	return t.Find(p.Children[i+1])
}

// IsAncestor reports whether ancestorID is id itself or one of its ancestors.
func (t *Tree) IsAncestor(ancestorID, id string) bool {
	seen := map[string]bool{}
	for cur := id; cur != "" && !seen[cur]; {
		if cur == ancestorID {
			return true
		}
		seen[cur] = true
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		cur = n.ParentID
	}
	return false
}

// Detach removes id from its parent's children. The subtree stays intact.
func (t *Tree) Detach(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return errNodeNotFound(id)
	}
	if id == t.RootID {
		return ErrDetachRoot
	}
	p, i := t.indexInParent(id)
	if p != nil && i >= 0 {
		p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
	}
	n.ParentID = ""
	return nil
}

func (t *Tree) checkInsert(id, targetID string) (*model.Node, *model.Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, nil, errNodeNotFound(id)
	}
	target, ok := t.nodes[targetID]
	if !ok {
		return nil, nil, errNodeNotFound(targetID)
	}
	if n.ParentID != "" || id == t.RootID {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrAttached)
	}
	if t.IsAncestor(id, targetID) {
		return nil, nil, ErrCycle
	}
	return n, target, nil
}

// InsertAfter attaches the detached node id as the sibling right after targetID.
func (t *Tree) InsertAfter(targetID, id string) error {
	return t.insertSibling(targetID, id, 1)
}

// InsertBefore attaches the detached node id as the sibling right before targetID.
func (t *Tree) InsertBefore(targetID, id string) error {
	return t.insertSibling(targetID, id, 0)
}

func (t *Tree) insertSibling(targetID, id string, offset int) error {
	n, _, err := t.checkInsert(id, targetID)
	if err != nil {
		return err
	}
	p, i := t.indexInParent(targetID)
	if p == nil || i < 0 {
		return fmt.Errorf("insert next to %s: %w", targetID, ErrDetachRoot)
	}
	at := i + offset
	p.Children = append(p.Children, "")
	copy(p.Children[at+1:], p.Children[at:])
	p.Children[at] = n.ID
	n.ParentID = p.ID
	return nil
}

// InsertFirstChild attaches the detached node id as the first child of targetID.
func (t *Tree) InsertFirstChild(targetID, id string) error {
	n, target, err := t.checkInsert(id, targetID)
	if err != nil {
		return err
	}
	target.Children = append([]string{n.ID}, target.Children...)
	n.ParentID = target.ID
	return nil
}

// AppendChild attaches the detached node id as the last child of targetID.
func (t *Tree) AppendChild(targetID, id string) error {
	n, target, err := t.checkInsert(id, targetID)
	if err != nil {
		return err
	}
	target.Children = append(target.Children, n.ID)
	n.ParentID = target.ID
	return nil
}

// Walk visits the subtree below id (excluding id) in pre-order with each node's depth
// relative to id's children (0). Returning false from fn skips that node's children.
func (t *Tree) Walk(id string, fn func(n *model.Node, depth int) bool) {
	var walk func(pid string, depth int)
	walk = func(pid string, depth int) {
		for _, c := range t.ChildrenOf(pid) {
			if fn(c, depth) {
				walk(c.ID, depth+1)
			}
		}
	}
	walk(id, 0)
}

// View returns the nested form of the subtree rooted at id.
func (t *Tree) View(id string) (model.NodeView, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return model.NodeView{}, false
	}
	v := model.NodeView{ID: n.ID, Title: n.Title, Notes: n.Notes, OriginID: n.OriginID, Match: n.Match}
	for _, c := range t.ChildrenOf(id) {
		cv, _ := t.View(c.ID)
		v.Children = append(v.Children, cv)
	}
	return v, true
}

// FromView builds a tree whose root children are the given views.
func FromView(rootTitle, prefix string, views []model.NodeView) *Tree {
	t := New(rootTitle, prefix)
	var add func(parentID string, v model.NodeView)
	add = func(parentID string, v model.NodeView) {
		n, _ := t.Add(parentID, v.Title, v.Notes)
		for _, c := range v.Children {
			add(n.ID, c)
		}
	}
	for _, v := range views {
		add(t.RootID, v)
	}
	return t
}
