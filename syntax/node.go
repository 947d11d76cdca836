package syntax

import (
	"iter"

	"github.com/dhamidi/libsyntax/text"
)

// Node is a located view of a content-tree element: the element, its
// absolute start offset and a link to its located parent. Nodes are derived
// on demand while traversing and are cheap to discard; two views of the same
// element never share state.
type Node struct {
	green  GreenElement
	offset int
	parent *Node
	index  int
}

// NewRoot returns the located root of green at offset 0.
func NewRoot(green *GreenNode) *Node {
	return &Node{green: green}
}

func (n *Node) Kind() Kind {
	return n.green.Kind()
}

func (n *Node) Green() GreenElement {
	return n.green
}

func (n *Node) Offset() int {
	return n.offset
}

func (n *Node) Range() text.Range {
	return text.RangeOfLen(n.offset, n.green.TextLen())
}

// Text returns the literal text of a token, or the concatenated text of all
// leaves of a node.
func (n *Node) Text() string {
	return n.green.Text()
}

func (n *Node) IsToken() bool {
	_, ok := n.green.(*GreenToken)
	return ok
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) greenChildren() []GreenElement {
	if g, ok := n.green.(*GreenNode); ok {
		return g.children
	}
	return nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.greenChildren())
}

// Child returns the i-th child view, or nil when out of bounds.
func (n *Node) Child(i int) *Node {
	children := n.greenChildren()
	if i < 0 || i >= len(children) {
		return nil
	}
	off := n.offset
	for _, c := range children[:i] {
		off += c.TextLen()
	}
	return &Node{green: children[i], offset: off, parent: n, index: i}
}

// Children returns views of all direct children in order.
func (n *Node) Children() []*Node {
	children := n.greenChildren()
	if len(children) == 0 {
		return nil
	}
	result := make([]*Node, len(children))
	off := n.offset
	for i, c := range children {
		result[i] = &Node{green: c, offset: off, parent: n, index: i}
		off += c.TextLen()
	}
	return result
}

func (n *Node) FirstChild() *Node {
	return n.Child(0)
}

func (n *Node) LastChild() *Node {
	return n.Child(n.ChildCount() - 1)
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.greenChildren()
	i := n.index + 1
	if i >= len(siblings) {
		return nil
	}
	return &Node{green: siblings[i], offset: n.offset + n.green.TextLen(), parent: n.parent, index: i}
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	siblings := n.parent.greenChildren()
	i := n.index - 1
	return &Node{green: siblings[i], offset: n.offset - siblings[i].TextLen(), parent: n.parent, index: i}
}

// Ancestors yields n followed by its parent chain up to the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := n; cur != nil; cur = cur.parent {
			if !yield(cur) {
				return
			}
		}
	}
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Node) ChildOfKind(kind Kind) *Node {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns all direct children of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var result []*Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			result = append(result, c)
		}
	}
	return result
}

// Equal reports whether two views denote the same element at the same
// offset.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.green == other.green && n.offset == other.offset
}
